package app

// RequiredPlayers is the number of occupied roles needed before a match can
// start. Keep this centralized so tests or local runs can adjust the rule
// without touching multiple call sites.
const RequiredPlayers = 3
