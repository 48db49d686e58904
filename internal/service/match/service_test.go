package match_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/crush-reveal/internal/app/apptest"
	"github.com/oggyb/crush-reveal/internal/db"
	"github.com/oggyb/crush-reveal/internal/db/dbtest"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
	"github.com/oggyb/crush-reveal/internal/service/match"
)

var (
	// inside the Sunday 2026-10-11 20:00 UTC window
	windowOpen = time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	// mid-week, locked until Sunday 2026-10-18 20:00 UTC
	windowLocked = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
)

//
// Test helpers
//

// setupService wires a Match service on an isolated DB + Redis and creates
// users a..e. Returned ids are keyed by username.
func setupService(t *testing.T, now time.Time) (*match.Service, *apptest.Env, map[string]string) {
	t.Helper()

	env := apptest.New(t, now)
	users := dbtest.CreateUsers(t, env.App.DB, "a", "b", "c", "d", "e")

	ids := make(map[string]string, len(users))
	for _, u := range users {
		ids[u.Username] = strconv.FormatUint(u.ID, 10)
	}
	return match.NewMatchService(env.App), env, ids
}

func submit(t *testing.T, svc *match.Service, ids map[string]string, who, crush, like, adore string) {
	t.Helper()
	_, err := svc.SubmitPreferences(context.Background(), &pb.SubmitPreferencesRequest{
		SubmitterUserId: ids[who],
		Crush:           ids[crush],
		Like:            ids[like],
		Adore:           ids[adore],
	})
	require.NoError(t, err)
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var e *svcErr.Error
	require.ErrorAs(t, err, &e)
	return e.Reason
}

//
// Tests
//

func TestSubmitPreferences_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t, windowLocked)
	submit(t, svc, ids, "a", "b", "c", "d")

	tests := []struct {
		name   string
		req    *pb.SubmitPreferencesRequest
		code   codes.Code
		reason string
	}{
		{"already submitted", &pb.SubmitPreferencesRequest{SubmitterUserId: ids["a"], Crush: ids["e"], Like: ids["c"], Adore: ids["d"]}, codes.AlreadyExists, svcErr.ReasonAlreadySubmitted},
		{"bad submitter", &pb.SubmitPreferencesRequest{SubmitterUserId: "nope", Crush: ids["a"], Like: ids["c"], Adore: ids["d"]}, codes.InvalidArgument, svcErr.ReasonInvalidInput},
		{"missing target", &pb.SubmitPreferencesRequest{SubmitterUserId: ids["b"], Crush: ids["a"], Adore: ids["d"]}, codes.InvalidArgument, svcErr.ReasonInvalidInput},
		{"self", &pb.SubmitPreferencesRequest{SubmitterUserId: ids["b"], Crush: ids["b"], Like: ids["c"], Adore: ids["d"]}, codes.InvalidArgument, svcErr.ReasonSelfSelection},
		{"duplicate", &pb.SubmitPreferencesRequest{SubmitterUserId: ids["b"], Crush: ids["c"], Like: ids["c"], Adore: ids["d"]}, codes.InvalidArgument, svcErr.ReasonDuplicateTarget},
		{"unknown target", &pb.SubmitPreferencesRequest{SubmitterUserId: ids["b"], Crush: "9999", Like: ids["c"], Adore: ids["d"]}, codes.NotFound, svcErr.ReasonTargetNotFound},
		{"unknown submitter", &pb.SubmitPreferencesRequest{SubmitterUserId: "9999", Crush: ids["a"], Like: ids["c"], Adore: ids["d"]}, codes.NotFound, svcErr.ReasonUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitPreferences(ctx, tt.req)
			assert.Equal(t, tt.code, status.Code(err))
			assert.Equal(t, tt.reason, reasonOf(t, err))
		})
	}
}

func TestGetResults_LockedCarriesNextReveal(t *testing.T) {
	svc, _, ids := setupService(t, windowLocked)
	submit(t, svc, ids, "a", "b", "c", "d")
	submit(t, svc, ids, "b", "a", "c", "d")

	resp, err := svc.GetResults(context.Background(), &pb.GetResultsRequest{UserId: ids["a"]})
	require.NoError(t, err)
	assert.True(t, resp.Locked)
	assert.Empty(t, resp.Matches)
	assert.Equal(t, uint64(time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC).UnixMilli()), resp.NextRevealAt)
}

func TestGetResults_OpenWindowRevealsMatches(t *testing.T) {
	svc, _, ids := setupService(t, windowOpen)
	submit(t, svc, ids, "a", "b", "c", "d")
	submit(t, svc, ids, "b", "e", "a", "c")
	submit(t, svc, ids, "c", "e", "b", "d") // does not list a

	resp, err := svc.GetResults(context.Background(), &pb.GetResultsRequest{UserId: ids["a"]})
	require.NoError(t, err)
	assert.False(t, resp.Locked)
	require.Len(t, resp.Matches, 1)

	m := resp.Matches[0]
	assert.Equal(t, ids["b"], m.User.UserId)
	assert.Equal(t, "B Tester", m.User.FullName)
	assert.Equal(t, "CRUSH", m.MyCategory)
	assert.Equal(t, "LIKE", m.TheirCategory)
	assert.Equal(t, "Crush ↔ Like", m.Label)

	require.Len(t, resp.Choices, 3)
	assert.Equal(t, "CRUSH", resp.Choices[0].Category)
	assert.Equal(t, ids["b"], resp.Choices[0].User.UserId)
	assert.Equal(t, "ADORE", resp.Choices[2].Category)
	assert.Equal(t, ids["d"], resp.Choices[2].User.UserId)
}

func TestGetResults_UnknownUser(t *testing.T) {
	svc, _, _ := setupService(t, windowOpen)

	_, err := svc.GetResults(context.Background(), &pb.GetResultsRequest{UserId: "777"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = svc.GetResults(context.Background(), &pb.GetResultsRequest{UserId: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestGetStatus_ParticipantCountCache verifies the count is served from Redis
// and dropped when someone submits.
func TestGetStatus_ParticipantCountCache(t *testing.T) {
	ctx := context.Background()
	svc, env, ids := setupService(t, windowLocked)
	submit(t, svc, ids, "a", "b", "c", "d")

	// First call → DB, then cached
	resp, err := svc.GetStatus(ctx, &pb.GetStatusRequest{UserId: ids["a"]})
	require.NoError(t, err)
	assert.True(t, resp.HasSubmitted)
	assert.True(t, resp.IsLocked)
	assert.Equal(t, uint64(1), resp.TotalSubmissions)
	require.Len(t, resp.Choices, 3)
	assert.Equal(t, "CRUSH", resp.Choices[0].Category)
	assert.Equal(t, ids["b"], resp.Choices[0].User.UserId)

	cached, err := env.Redis.Get("submissions:count")
	require.NoError(t, err)
	assert.Equal(t, "1", cached)

	// a stale cached value wins until invalidated
	require.NoError(t, env.Redis.Set("submissions:count", "40"))
	resp, err = svc.GetStatus(ctx, &pb.GetStatusRequest{UserId: ids["e"]})
	require.NoError(t, err)
	assert.False(t, resp.HasSubmitted)
	assert.Empty(t, resp.Choices)
	assert.Equal(t, uint64(40), resp.TotalSubmissions)

	// a submission invalidates the cache
	submit(t, svc, ids, "b", "a", "c", "d")
	assert.False(t, env.Redis.Exists("submissions:count"))

	resp, err = svc.GetStatus(ctx, &pb.GetStatusRequest{UserId: ids["b"]})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp.TotalSubmissions)
}

// TestGetStatus_StaleCountExpiresWhilePolling covers a count cached just
// before a submission landed: polling must not keep it alive.
func TestGetStatus_StaleCountExpiresWhilePolling(t *testing.T) {
	ctx := context.Background()
	svc, env, ids := setupService(t, windowLocked)
	submit(t, svc, ids, "a", "b", "c", "d")

	// cached count from before the submission, written after its invalidation
	require.NoError(t, env.App.RedisCache.SetParticipantCount(ctx, 0))

	for i := 0; i < 5; i++ {
		resp, err := svc.GetStatus(ctx, &pb.GetStatusRequest{UserId: ids["a"]})
		require.NoError(t, err)
		assert.Equal(t, uint64(0), resp.TotalSubmissions)
		env.Redis.FastForward(time.Minute)
	}

	env.Redis.FastForward(time.Second)
	resp, err := svc.GetStatus(ctx, &pb.GetStatusRequest{UserId: ids["a"]})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.TotalSubmissions)
}

func TestSubmitPreferences_StoresOneRow(t *testing.T) {
	svc, env, ids := setupService(t, windowLocked)
	submit(t, svc, ids, "a", "b", "c", "d")

	_, err := svc.SubmitPreferences(context.Background(), &pb.SubmitPreferencesRequest{
		SubmitterUserId: ids["a"], Crush: ids["e"], Like: ids["d"], Adore: ids["c"],
	})
	require.Error(t, err)

	var rows []db.Submission
	require.NoError(t, env.App.DB.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, ids["b"], strconv.FormatUint(rows[0].CrushID, 10))
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, ids := setupService(t, windowLocked)

	resp, err := svc.SearchUsers(ctx, &pb.SearchUsersRequest{Query: "tester", ExcludeUserId: ids["a"], Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	require.NotNil(t, resp.NextPaginationToken)
	for _, u := range resp.Users {
		assert.NotEqual(t, ids["a"], u.UserId)
	}

	rest, err := svc.SearchUsers(ctx, &pb.SearchUsersRequest{
		Query: "tester", ExcludeUserId: ids["a"], Limit: 2, PaginationToken: resp.NextPaginationToken,
	})
	require.NoError(t, err)
	assert.Len(t, rest.Users, 2)

	_, err = svc.SearchUsers(ctx, &pb.SearchUsersRequest{Query: "tester", ExcludeUserId: "me"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	bad := "%%%"
	_, err = svc.SearchUsers(ctx, &pb.SearchUsersRequest{Query: "tester", PaginationToken: &bad})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
