package match

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/oggyb/crush-reveal/internal/app"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	"github.com/oggyb/crush-reveal/internal/logger"
	"github.com/oggyb/crush-reveal/internal/matching"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
	"github.com/oggyb/crush-reveal/internal/repository"
)

// Service implements the Match gRPC API and backs the /api/match HTTP routes.
// It sits on top of the matcher, the submission repository and the cache.
type Service struct {
	appCtx         *app.AppContext
	submissionRepo *repository.SubmissionRepository

	pb.UnimplementedMatchServiceServer
}

// NewMatchService creates a new Match service with dependencies from AppContext.
// Dependencies include:
//   - Matcher (ledger, schedule, resolver)
//   - DB connection (via SubmissionRepository) for the participant count
//   - RedisCache for the cached participant count
func NewMatchService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:         appCtx,
		submissionRepo: repository.NewSubmissionRepository(appCtx.DB),
	}
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOr(ctx, s.appCtx.Logger)
}

// SubmitPreferences stores the caller's one-time preference triple.
//
// Behavior:
//   - userId, crush, like and adore must be decimal user ids.
//   - A second submission fails with AlreadyExists (reason ALREADY_SUBMITTED)
//     and leaves the first one untouched.
//   - Self selection and duplicate targets fail with InvalidArgument.
//   - Unknown users fail with NotFound naming the slots.
//   - On success the cached participant count is dropped.
//
// Example:
//
//	svc.SubmitPreferences(ctx, &pb.SubmitPreferencesRequest{SubmitterUserId: "1", Crush: "2", Like: "3", Adore: "4"})
func (s *Service) SubmitPreferences(ctx context.Context, req *pb.SubmitPreferencesRequest) (*pb.SubmitPreferencesResponse, error) {
	log := s.log(ctx)
	log.Debug("SubmitPreferences called", "submitter", req.GetSubmitterUserId())

	submitterID, err := matching.ParseUserID(req.GetSubmitterUserId())
	if err != nil {
		s.appCtx.Metrics.ObserveSubmission(svcErr.ReasonInvalidInput)
		return nil, svcErr.InvalidArgument("userId must be a valid user id")
	}
	targets, err := matching.ParseTargets(req.Crush, req.Like, req.Adore)
	if err != nil {
		s.appCtx.Metrics.ObserveSubmission(svcErr.ReasonInvalidInput)
		return nil, svcErr.Map(err)
	}

	sub, err := s.appCtx.Matcher.Submit(ctx, submitterID, targets)
	if err != nil {
		reason := svcErr.ReasonOf(err)
		s.appCtx.Metrics.ObserveSubmission(reason)
		if reason == svcErr.ReasonInternal {
			log.Error("Submit failed", "submitter", submitterID, "err", err)
		} else {
			log.Debug("Submit rejected", "submitter", submitterID, "reason", reason, "err", err)
		}
		return nil, svcErr.Map(err)
	}
	s.appCtx.Metrics.ObserveSubmission("ok")

	if err := s.appCtx.RedisCache.InvalidateParticipantCount(ctx); err != nil {
		log.Warn("failed to invalidate participant count", "err", err)
	}

	return &pb.SubmitPreferencesResponse{
		SubmissionId:  strconv.FormatUint(sub.ID, 10),
		UnixTimestamp: unixMilli(sub.CreatedAt),
		Message:       "Preferences submitted. Results unlock at the next reveal.",
	}, nil
}

// GetStatus reports whether the user submitted, whether results are locked
// and when the next reveal happens, plus the user's own choices.
//
// The participant count is read cache-first:
//  1. Attempts to read from Redis (submissions:count). Reads keep the TTL.
//  2. On a miss, counts in the DB and stores the value with a 5 minute TTL.
//  3. Failures only drop the count from the response.
func (s *Service) GetStatus(ctx context.Context, req *pb.GetStatusRequest) (*pb.GetStatusResponse, error) {
	log := s.log(ctx)
	log.Debug("GetStatus called", "user", req.GetUserId())

	userID, err := matching.ParseUserID(req.GetUserId())
	if err != nil {
		return nil, svcErr.InvalidArgument("userId must be a valid user id")
	}

	st, err := s.appCtx.Matcher.Status(ctx, userID)
	if err != nil {
		if matching.KindOf(err) == matching.KindUnknown {
			log.Error("Status failed", "user", userID, "err", err)
		}
		return nil, svcErr.Map(err)
	}

	resp := &pb.GetStatusResponse{
		HasSubmitted:     st.HasSubmitted,
		IsLocked:         st.IsLocked,
		NextRevealAt:     unixMilli(st.NextRevealAt),
		ClosesAt:         unixMilli(st.ClosesAt),
		TotalSubmissions: s.participantCount(ctx),
		Choices:          choices(st.Choices),
	}
	return resp, nil
}

// GetResults returns the mutual matches while the reveal window is open, and
// a locked payload with nextRevealAt otherwise. Locked is a normal answer,
// not an error.
//
// Example:
//
//	svc.GetResults(ctx, &pb.GetResultsRequest{UserId: "42"})
func (s *Service) GetResults(ctx context.Context, req *pb.GetResultsRequest) (*pb.GetResultsResponse, error) {
	log := s.log(ctx)
	log.Debug("GetResults called", "user", req.GetUserId())

	userID, err := matching.ParseUserID(req.GetUserId())
	if err != nil {
		return nil, svcErr.InvalidArgument("userId must be a valid user id")
	}

	res, err := s.appCtx.Matcher.Results(ctx, userID)
	if err != nil {
		if matching.KindOf(err) == matching.KindUnknown {
			log.Error("Results failed", "user", userID, "err", err)
		}
		return nil, svcErr.Map(err)
	}
	s.appCtx.Metrics.ObserveResults(res.Locked, len(res.Matches))

	resp := &pb.GetResultsResponse{
		Locked:       res.Locked,
		NextRevealAt: unixMilli(res.NextRevealAt),
		ClosesAt:     unixMilli(res.ClosesAt),
		Matches:      make([]*pb.Match, 0, len(res.Matches)),
		Choices:      choices(res.Choices),
	}
	for _, m := range res.Matches {
		resp.Matches = append(resp.Matches, &pb.Match{
			User:          summary(m.Profile),
			MyCategory:    m.Mine.String(),
			TheirCategory: m.Theirs.String(),
			Label:         m.Label(),
		})
	}

	log.Debug("GetResults result", "user", userID, "locked", res.Locked, "match_count", len(resp.Matches))
	return resp, nil
}

// SearchUsers looks users up by partial username or full name for the
// selection UI. The caller passes its own id in exclude to hide itself.
//
// Behavior:
//   - branch narrows the result to one branch; a blank query then lists it.
//   - Blank query and blank branch → empty list.
//   - limit defaults to 10 and is capped at 25.
//   - Supports cursor-based pagination with paginationToken.
func (s *Service) SearchUsers(ctx context.Context, req *pb.SearchUsersRequest) (*pb.SearchUsersResponse, error) {
	log := s.log(ctx)
	log.Debug("SearchUsers called", "query", req.GetQuery(), "branch", req.GetBranch(), "token", req.GetPaginationToken())

	var excludeID uint64
	if strings.TrimSpace(req.ExcludeUserId) != "" {
		id, err := matching.ParseUserID(req.ExcludeUserId)
		if err != nil {
			return nil, svcErr.InvalidArgument("exclude must be a valid user id")
		}
		excludeID = id
	}

	page, err := s.appCtx.Matcher.Search(ctx, req.GetQuery(), req.GetBranch(), excludeID, req.PaginationToken, int(req.Limit))
	if err != nil {
		if matching.KindOf(err) == matching.KindUnknown {
			log.Error("Search failed", "err", err)
		}
		return nil, svcErr.Map(err)
	}

	resp := &pb.SearchUsersResponse{
		Users:               make([]*pb.UserSummary, 0, len(page.Users)),
		NextPaginationToken: page.NextToken,
	}
	for _, p := range page.Users {
		resp.Users = append(resp.Users, summary(p))
	}
	return resp, nil
}

func (s *Service) participantCount(ctx context.Context) uint64 {
	log := s.log(ctx)

	// try cache first
	n, ok, err := s.appCtx.RedisCache.GetParticipantCount(ctx)
	if err != nil {
		log.Warn("participant count cache read failed", "err", err)
	}
	if ok {
		return uint64(n)
	}

	// fallback: DB
	count, err := s.submissionRepo.Count(ctx)
	if err != nil {
		log.Error("participant count failed", "err", err)
		return 0
	}

	_ = s.appCtx.RedisCache.SetParticipantCount(ctx, count)
	return uint64(count)
}

func summary(p matching.Profile) *pb.UserSummary {
	return &pb.UserSummary{
		UserId:   strconv.FormatUint(p.UserID, 10),
		Username: p.Username,
		FullName: p.FullName,
		Branch:   p.Branch,
		Year:     p.Year,
	}
}

func choices(cs []matching.Choice) []*pb.Choice {
	out := make([]*pb.Choice, 0, len(cs))
	for _, c := range cs {
		out = append(out, &pb.Choice{
			Category: c.Category.String(),
			User:     summary(c.Profile),
		})
	}
	return out
}

func unixMilli(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixMilli())
}
