package replay

type Request struct {
	MatchID string
}
