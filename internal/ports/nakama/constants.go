package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcStandings is the Nakama RPC id returning the head of the global ladder.
	RpcStandings = "standings"

	// MatchNameCollapsization is the authoritative match handler name registered with Nakama.
	MatchNameCollapsization = "collapsization_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpReveal  int64 = 1
	OpControl int64 = 2
	OpCommit  int64 = 3
	OpBuild   int64 = 4
	OpVerify  int64 = 5

	// Server -> Client events
	OpSnapshot            int64 = 101 // send privately per role
	OpFogRevealed         int64 = 102 // advisors only
	OpNominationsRevealed int64 = 103
	OpTurnResolved        int64 = 104
	OpVerifyResult        int64 = 105 // Mayor only
	OpGameOver            int64 = 106
	OpGameError           int64 = 107 // send privately to the offender
)
