/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package scryfall

import (
	"strings"
	"testing"
)

func TestCommanderRules(t *testing.T) {
	cases := []struct {
		name       string
		card       Card
		background bool
		chooseBG   bool
		friends    bool
		partner    string
	}{
		{
			name:       "background",
			card:       Card{TypeLine: "Legendary Enchantment — Background"},
			background: true,
		},
		{
			name: "choose a background",
			card: Card{TypeLine: "Legendary Creature — Dwarf",
				OracleText: "Flying\nChoose a Background (You can have a Background as a second commander.)"},
			chooseBG: true,
		},
		{
			name: "friends forever",
			card: Card{OracleText: "Friends forever (You can have two commanders if both have friends forever.)"},
			friends: true,
		},
		{
			name:    "partner with",
			card:    Card{OracleText: "Partner with Virtus the Veiled (When this creature enters, ...)\nMenace"},
			partner: "Virtus the Veiled",
		},
		{
			name: "plain",
			card: Card{TypeLine: "Legendary Creature — Human", OracleText: "Vigilance"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.card.IsBackground(); got != c.background {
				t.Errorf("IsBackground = %v", got)
			}
			if got := c.card.HasChooseABackground(); got != c.chooseBG {
				t.Errorf("HasChooseABackground = %v", got)
			}
			if got := c.card.HasFriendsForever(); got != c.friends {
				t.Errorf("HasFriendsForever = %v", got)
			}
			got, ok := c.card.PartnerWithTarget()
			if ok != (c.partner != "") || got != c.partner {
				t.Errorf("PartnerWithTarget = %q, %v", got, ok)
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	single := Card{ImageURIs: map[string]string{"normal": "n.jpg"}}
	if got := single.ImageURL("normal"); got != "n.jpg" {
		t.Errorf("single = %q", got)
	}
	dfc := Card{CardFaces: []CardFace{
		{ImageURIs: map[string]string{"art_crop": "front.jpg"}},
		{ImageURIs: map[string]string{"art_crop": "back.jpg"}},
	}}
	if got := dfc.ImageURL("art_crop"); got != "front.jpg" {
		t.Errorf("dfc = %q", got)
	}
	if got := (&Card{}).ImageURL("normal"); got != "" {
		t.Errorf("empty = %q", got)
	}
}

func TestBuildCardOutput(t *testing.T) {
	c := Card{Name: "Wilson, Refined Grizzly", ManaCost: "{1}{G}",
		TypeLine:    "Legendary Creature — Bear Warrior",
		OracleText:  "Choose a Background",
		ScryfallURI: "https://scryfall.com/card/clb/256"}
	out := BuildCardOutput(&c, "**")

	for _, want := range []string{"**Wilson, Refined Grizzly** {1}{G}\n",
		"Legendary Creature — Bear Warrior\n", "Partner: any Background\n",
		"https://scryfall.com/card/clb/256\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%v", want, out)
		}
	}
}
