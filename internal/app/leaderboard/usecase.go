package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"molttactics/internal/app/ports"
	"molttactics/internal/domain/rating"
)

var ErrInvalidRequest = errors.New("invalid leaderboard request")

var seasonPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Request struct {
	Season string
}

type Response struct {
	Season  string          `json:"season"`
	Entries []rating.Record `json:"entries"`
}

type UseCase struct {
	Ratings ports.RatingRepository
}

// Execute ranks the all-time ledger, or one season when Season is set.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	season := strings.TrimSpace(req.Season)
	if season != "" && season != rating.AllTime && !seasonPattern.MatchString(season) {
		return Response{}, ErrInvalidRequest
	}

	var (
		records map[string]rating.Record
		err     error
	)
	if season == "" || season == rating.AllTime {
		season = rating.AllTime
		records, err = u.Ratings.LoadRatings(ctx)
	} else {
		records, err = u.Ratings.LoadSeasonRatings(ctx, season)
	}
	if err != nil {
		return Response{}, fmt.Errorf("load %s ratings: %w", season, err)
	}
	return Response{Season: season, Entries: rating.Leaderboard(records)}, nil
}
