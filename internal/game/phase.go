package game

// Phase is the coarse turn phase. Transitions are strictly linear:
// DRAW → (CONTROL) → NOMINATE → PLACE → DRAW, with GAME_OVER terminal.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseDraw
	PhaseControl
	PhaseNominate
	PhasePlace
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseDraw:
		return "draw"
	case PhaseControl:
		return "control"
	case PhaseNominate:
		return "nominate"
	case PhasePlace:
		return "place"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// SubPhase sequences the four advisor commits inside NOMINATE. It is
// meaningless outside that phase.
type SubPhase int

const (
	SubPhaseIndustryCommit1 SubPhase = iota
	SubPhaseIndustryCommit2
	SubPhaseUrbanistCommit1
	SubPhaseUrbanistCommit2
	SubPhasePlaceReady
)

func (s SubPhase) String() string {
	switch s {
	case SubPhaseIndustryCommit1:
		return "industry_commit_1"
	case SubPhaseIndustryCommit2:
		return "industry_commit_2"
	case SubPhaseUrbanistCommit1:
		return "urbanist_commit_1"
	case SubPhaseUrbanistCommit2:
		return "urbanist_commit_2"
	case SubPhasePlaceReady:
		return "place_ready"
	default:
		return "unknown"
	}
}

// committer returns the advisor expected to act in this sub-phase.
func (s SubPhase) committer() (Role, bool) {
	switch s {
	case SubPhaseIndustryCommit1, SubPhaseIndustryCommit2:
		return RoleIndustry, true
	case SubPhaseUrbanistCommit1, SubPhaseUrbanistCommit2:
		return RoleUrbanist, true
	default:
		return 0, false
	}
}

// isFirstCommit reports whether this is the advisor's first commit of the
// turn. Forced-hex and forced-suit constraints bind the first commit only.
func (s SubPhase) isFirstCommit() bool {
	return s == SubPhaseIndustryCommit1 || s == SubPhaseUrbanistCommit1
}

func (s SubPhase) next() SubPhase {
	switch s {
	case SubPhaseIndustryCommit1:
		return SubPhaseIndustryCommit2
	case SubPhaseIndustryCommit2:
		return SubPhaseUrbanistCommit1
	case SubPhaseUrbanistCommit1:
		return SubPhaseUrbanistCommit2
	default:
		return SubPhasePlaceReady
	}
}
