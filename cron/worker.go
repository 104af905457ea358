package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"roamly/config"
	refundRepo "roamly/database/repository/refund"
	"roamly/models"
	"roamly/services/payment"
	"roamly/services/tasks"
	"roamly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitSideEffectWorker runs the async worker in background. It owns the
// best-effort side of cancellations and reservations: refund request
// processing and booking event delivery. Retries live here, never in the
// request path.
func InitSideEffectWorker(refunds refundRepo.RefundRepository, gateway payment.RefundGateway) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"refunds": 2,
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRefundCreate, handleRefundTask(refunds, gateway))
	mux.HandleFunc(tasks.TypeBookingEvent, handleBookingEventTask())

	// Start async worker with retry logic.
	go func() {
		log.Println("[SideEffectWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SideEffectWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SideEffectWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleRefundTask lands a refund request in the ledger and pushes it through
// the gateway. Safe under at-least-once delivery: a request that already
// reached the ledger is reused, and one already processed is skipped.
func handleRefundTask(refunds refundRepo.RefundRepository, gateway payment.RefundGateway) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var req models.RefundRequest
		if err := json.Unmarshal(task.Payload(), &req); err != nil {
			logger.Error("invalid refund task payload", zap.Error(err))
			return err
		}

		existing, err := refunds.GetByReservation(req.ReservationID)
		switch {
		case err == nil:
			if existing.Status == models.RefundProcessed {
				logger.Info("refund request already processed, skipping",
					zap.String("reservationID", req.ReservationID))
				return nil
			}
			req = *existing
		case errors.Is(err, refundRepo.ErrNotFound):
			if err := refunds.Create(&req); err != nil {
				return err
			}
		default:
			return err
		}

		gatewayRef, err := gateway.IssueRefund(ctx, req)
		if err != nil {
			logger.Warn("refund gateway call failed, will retry",
				zap.String("requestID", req.ID), zap.Error(err))
			if markErr := refunds.MarkFailed(req.ID, err.Error()); markErr != nil {
				logger.Error("failed to record refund failure", zap.Error(markErr))
			}
			return err
		}

		if err := refunds.MarkProcessed(req.ID, gatewayRef); err != nil {
			return err
		}
		logger.Info("refund request processed",
			zap.String("requestID", req.ID),
			zap.String("gatewayRef", gatewayRef),
			zap.Float64("amount", req.Amount))
		return nil
	}
}

// handleBookingEventTask delivers booking lifecycle events to downstream
// notification collaborators.
func handleBookingEventTask() asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.BookingEventPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid booking event payload", zap.Error(err))
			return err
		}

		logger.Info("booking event delivered",
			zap.String("event", p.Event),
			zap.String("reservationID", p.ReservationID),
			zap.String("slotID", p.SlotID),
			zap.String("holderID", p.HolderID))
		return nil
	}
}
