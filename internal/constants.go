/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent    = "commanderraffle/0.4.0 (+https://github.com/mikeb26/commanderraffle)"
	ScryfallBase = "https://api.scryfall.com"

	// local files (or S3 object keys) holding the event
	RaffleFile       = "raffle.json"
	PairingsFile     = "pairings.json"
	StartFile        = "start.txt"
	EventConfigFile  = "event_config.json"
	ParticipantsFile = "teilnehmer.txt"
)
