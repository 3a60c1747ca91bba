package tictactoe

import "github.com/rocketscienceinc/tictactoe-robot/internal/entity"

// DetectCheat - reports a relocation of one of the robot's pieces between two reads.
// Anything that is not exactly one removal plus one addition is treated as no cheat.
func DetectCheat(prev, cur entity.Board) entity.CheatReport {
	if cur.Count()-prev.Count() == 1 {
		return entity.CheatReport{}
	}

	prevPositions := prev.Positions(entity.Self)
	curPositions := cur.Positions(entity.Self)
	if len(prevPositions) == 0 || len(curPositions) == 0 {
		return entity.CheatReport{}
	}

	removed := difference(prevPositions, curPositions)
	added := difference(curPositions, prevPositions)
	if len(removed) != 1 || len(added) != 1 {
		return entity.CheatReport{}
	}

	return entity.CheatReport{Detected: true, From: removed[0], To: added[0]}
}

func difference(a, b []int) []int {
	in := make(map[int]struct{}, len(b))
	for _, v := range b {
		in[v] = struct{}{}
	}

	out := make([]int, 0, len(a))
	for _, v := range a {
		if _, ok := in[v]; !ok {
			out = append(out, v)
		}
	}

	return out
}
