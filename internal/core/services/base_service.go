package services

import (
	"context"
	"log/slog"

	"github.com/WayfareLabs/trip_split_app/internal/core/domain"
	portssvc "github.com/WayfareLabs/trip_split_app/internal/core/ports/services"
	"github.com/WayfareLabs/trip_split_app/internal/middleware"
)

// BaseService provides common functionality for all services.
type BaseService struct {
	TripAuthorizer portssvc.TripAuthorizerSvc
}

// GetLogger gets the request-scoped logger from context or the default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting.
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks if a user has the required role for a trip.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, tripID string, requiredRole domain.ParticipantRole) error {
	if s.TripAuthorizer != nil {
		return s.TripAuthorizer.AuthorizeUserAction(ctx, userID, tripID, requiredRole)
	}
	s.LogDebug(ctx, "No trip authorizer provided, access granted by default",
		slog.String("user_id", userID),
		slog.String("trip_id", tripID),
		slog.String("required_role", string(requiredRole)))
	return nil
}
