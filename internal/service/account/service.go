package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/oggyb/crush-reveal/internal/app"
	"github.com/oggyb/crush-reveal/internal/db"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	"github.com/oggyb/crush-reveal/internal/logger"
	pb "github.com/oggyb/crush-reveal/internal/proto/crush"
	"github.com/oggyb/crush-reveal/internal/repository"
)

// Service implements the Account gRPC API (sign-up only).
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	validate *validator.Validate

	pb.UnimplementedAccountServiceServer
}

func NewAccountService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register creates a user account.
//
// Behavior:
//   - All fields are required; email must be an address; password is 6 to 72
//     bytes (the bcrypt input limit).
//   - Username and email are trimmed and lowercased before storage.
//   - An existing username or email fails with AlreadyExists.
//   - The password is stored as a bcrypt hash.
//
// Example:
//
//	svc.Register(ctx, &pb.RegisterRequest{FullName: "Diya Menon", Username: "diya", ...})
func (s *Service) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	log := logger.FromContextOr(ctx, s.appCtx.Logger)

	in := normalize(req)
	log.Debug("Register called", "username", in.Username)

	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, svcErr.InvalidArgument(describe(err))
	}

	taken, err := s.userRepo.HandleTaken(ctx, in.Username, in.Email)
	if err != nil {
		log.Error("HandleTaken failed", "err", err)
		return nil, svcErr.Map(err)
	}
	if taken {
		return nil, svcErr.AlreadyExists("user with this email or username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.appCtx.Config.Auth.BcryptCost)
	if err != nil {
		log.Error("bcrypt failed", "err", err)
		return nil, svcErr.Map(err)
	}

	user := &db.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Branch:       in.Branch,
		Year:         in.Year,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent sign-up
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, svcErr.AlreadyExists("user with this email or username already exists")
		}
		log.Error("Create user failed", "err", err)
		return nil, svcErr.Map(err)
	}

	log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &pb.RegisterResponse{
		UserId:  strconv.FormatUint(user.ID, 10),
		Message: "Signup successful! Please log in.",
	}, nil
}

func normalize(req *pb.RegisterRequest) *pb.RegisterRequest {
	if req == nil {
		return &pb.RegisterRequest{}
	}
	return &pb.RegisterRequest{
		FullName: strings.TrimSpace(req.FullName),
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Branch:   strings.TrimSpace(req.Branch),
		Year:     strings.TrimSpace(req.Year),
	}
}

// describe turns validator output into one readable sentence.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid sign-up request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
