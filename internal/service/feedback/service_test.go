package feedback_test

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
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
	"github.com/oggyb/crush-reveal/internal/service/feedback"
)

func setupService(t *testing.T) (*feedback.Service, *apptest.Env, string) {
	t.Helper()
	env := apptest.New(t, time.Now())
	users := dbtest.CreateUsers(t, env.App.DB, "alice")
	return feedback.NewFeedbackService(env.App), env, strconv.FormatUint(users[0].ID, 10)
}

func TestSubmitFeedback(t *testing.T) {
	svc, env, userID := setupService(t)

	resp, err := svc.SubmitFeedback(context.Background(), &pb.SubmitFeedbackRequest{
		UserId:   userID,
		Category: db.FeedbackSuggestion,
		Message:  "  more reveal days please ",
	})
	require.NoError(t, err)
	assert.Equal(t, db.FeedbackStatusPending, resp.Status)

	var stored []db.Feedback
	require.NoError(t, env.App.DB.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "more reveal days please", stored[0].Message)
	assert.True(t, env.Redis.Exists("feedback:cooldown:"+userID))
}

func TestSubmitFeedback_Cooldown(t *testing.T) {
	ctx := context.Background()
	svc, env, userID := setupService(t)
	req := &pb.SubmitFeedbackRequest{UserId: userID, Category: db.FeedbackOther, Message: "hi"}

	_, err := svc.SubmitFeedback(ctx, req)
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(ctx, req)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "60 seconds")

	env.Redis.FastForward(time.Minute)
	_, err = svc.SubmitFeedback(ctx, req)
	assert.NoError(t, err)
}

func TestSubmitFeedback_Validation(t *testing.T) {
	ctx := context.Background()
	svc, env, userID := setupService(t)

	tests := []struct {
		name string
		req  *pb.SubmitFeedbackRequest
		code codes.Code
	}{
		{"bad user id", &pb.SubmitFeedbackRequest{UserId: "x", Category: db.FeedbackOther, Message: "m"}, codes.InvalidArgument},
		{"unknown category", &pb.SubmitFeedbackRequest{UserId: userID, Category: "Praise", Message: "m"}, codes.InvalidArgument},
		{"blank message", &pb.SubmitFeedbackRequest{UserId: userID, Category: db.FeedbackOther, Message: "   "}, codes.InvalidArgument},
		{"unknown user", &pb.SubmitFeedbackRequest{UserId: "4040", Category: db.FeedbackOther, Message: "m"}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitFeedback(ctx, tt.req)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	// rejected requests never start a cooldown
	assert.False(t, env.Redis.Exists("feedback:cooldown:"+userID))
}
