package feedback

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/oggyb/crush-reveal/internal/app"
	"github.com/oggyb/crush-reveal/internal/db"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	"github.com/oggyb/crush-reveal/internal/logger"
	"github.com/oggyb/crush-reveal/internal/matching"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
	"github.com/oggyb/crush-reveal/internal/repository"
)

const maxMessageLen = 2000

// Service implements the Feedback gRPC API.
type Service struct {
	appCtx       *app.AppContext
	userRepo     *repository.UserRepository
	feedbackRepo *repository.FeedbackRepository

	pb.UnimplementedFeedbackServiceServer
}

func NewFeedbackService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		userRepo:     repository.NewUserRepository(appCtx.DB),
		feedbackRepo: repository.NewFeedbackRepository(appCtx.DB),
	}
}

// SubmitFeedback stores a message for the organisers.
//
// Behavior:
//   - category must be one of db.FeedbackCategories; message must not be blank.
//   - The user must exist.
//   - One message per user per cooldown (config feedback.cooldown), tracked in
//     Redis under feedback:cooldown:<id>. A second message inside the window
//     fails with ResourceExhausted.
//   - If storing fails the cooldown is released so the user can retry.
func (s *Service) SubmitFeedback(ctx context.Context, req *pb.SubmitFeedbackRequest) (*pb.SubmitFeedbackResponse, error) {
	log := logger.FromContextOr(ctx, s.appCtx.Logger)
	log.Debug("SubmitFeedback called", "user", req.UserId, "category", req.Category)

	userID, err := matching.ParseUserID(req.UserId)
	if err != nil {
		return nil, svcErr.InvalidArgument("userId must be a valid user id")
	}
	if !slices.Contains(db.FeedbackCategories, req.Category) {
		return nil, svcErr.InvalidArgument("category must be one of: " + strings.Join(db.FeedbackCategories, ", "))
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, svcErr.InvalidArgument("message is required")
	}
	if len(message) > maxMessageLen {
		return nil, svcErr.InvalidArgument(fmt.Sprintf("message must be at most %d characters", maxMessageLen))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Error("FindByID failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if user == nil {
		return nil, svcErr.Map(matching.ErrUserNotFound)
	}

	cooldown := s.appCtx.Config.Feedback.Cooldown
	ok, err := s.appCtx.RedisCache.AcquireFeedbackSlot(ctx, userID, cooldown)
	if err != nil {
		log.Error("cooldown check failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if !ok {
		left, _ := s.appCtx.RedisCache.FeedbackCooldownRemaining(ctx, userID)
		return nil, svcErr.ResourceExhausted(fmt.Sprintf(
			"please wait %d seconds before sending more feedback", int(math.Ceil(left.Seconds()))))
	}

	fb := &db.Feedback{UserID: userID, Category: req.Category, Message: message}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		if relErr := s.appCtx.RedisCache.ReleaseFeedbackSlot(ctx, userID); relErr != nil {
			log.Warn("failed to release feedback cooldown", "err", relErr)
		}
		log.Error("Create feedback failed", "err", err)
		return nil, svcErr.Map(err)
	}

	log.Info("feedback received", "feedback_id", fb.ID, "user", userID, "category", fb.Category)
	return &pb.SubmitFeedbackResponse{
		FeedbackId: strconv.FormatUint(fb.ID, 10),
		Status:     fb.Status,
		Message:    "Thanks! Your feedback was submitted.",
	}, nil
}
