package weiqi

import "github.com/playvn/gamehub-backend/internal/entity"

// score settles the game with area scoring: stones on the board plus
// empty regions bordered by a single color. Regions touching both colors
// are dame and score for nobody. Equal totals are reported as a draw.
func (that *Engine) score() *entity.GameResult {
	stones := [2]int{}
	territory := [2]int{}

	visited := make([]bool, len(that.board))
	for i, c := range that.board {
		switch c {
		case black:
			stones[0]++
		case white:
			stones[1]++
		default:
			if visited[i] {
				continue
			}
			region, borders := that.emptyRegion(i, visited)
			switch borders {
			case black:
				territory[0] += len(region)
			case white:
				territory[1] += len(region)
			}
		}
	}

	blackScore := float64(stones[0] + territory[0])
	whiteScore := float64(stones[1]+territory[1]) + that.komi

	result := &entity.GameResult{
		WinnerSeat: -1,
		Reason:     entity.ResultTwoPasses,
		Score: &entity.ScoreBreakdown{
			Black: blackScore,
			White: whiteScore,
			Komi:  that.komi,
		},
	}
	switch {
	case blackScore > whiteScore:
		result.WinnerSeat = 0
	case whiteScore > blackScore:
		result.WinnerSeat = 1
	default:
		result.Draw = true
	}
	return result
}

// emptyRegion flood-fills the empty region containing start. The second
// return value is the color of every bordering stone, or 0 when the
// region borders both colors (or none).
func (that *Engine) emptyRegion(start int, visited []bool) (region []int, borders int8) {
	queue := []int{start}
	visited[start] = true
	borderColors := [3]bool{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region = append(region, cur)

		for _, n := range that.neighbors(cur/that.size, cur%that.size) {
			if c := that.board[n]; c != empty {
				borderColors[c] = true
				continue
			}
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}

	switch {
	case borderColors[black] && !borderColors[white]:
		return region, black
	case borderColors[white] && !borderColors[black]:
		return region, white
	default:
		return region, empty
	}
}
