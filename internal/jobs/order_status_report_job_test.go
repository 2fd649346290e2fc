package jobs_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"orderstate/internal/core/application/usecases/queries"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderLister struct{ mock.Mock }

func (m *MockOrderLister) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.([]queries.ListOrdersQueryResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestOrderStatusReportJob_Run(t *testing.T) {
	t.Run("should log the formatted listing", func(t *testing.T) {
		lister := new(MockOrderLister)
		lister.On("Handle", mock.Anything, mock.Anything).Return([]queries.ListOrdersQueryResponse{
			{BusinessKey: 1001, Status: order.WaitDeliver},
			{BusinessKey: 1002, Status: order.Finish},
		}, nil).Once()
		logger, buf := bufferLogger()

		jobs.NewOrderStatusReportJob(lister, "", logger).Run(t.Context())

		out := buf.String()
		assert.Contains(t, out, "Order status report")
		assert.Contains(t, out, "count=2")
		assert.Contains(t, out, "Order{orderId=1001, status=WAIT_DELIVER},Order{orderId=1002, status=FINISH}")
		lister.AssertExpectations(t)
	})

	t.Run("should log query failures", func(t *testing.T) {
		lister := new(MockOrderLister)
		lister.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
		logger, buf := bufferLogger()

		jobs.NewOrderStatusReportJob(lister, "", logger).Run(t.Context())

		assert.Contains(t, buf.String(), "Order status report failed")
		assert.Contains(t, buf.String(), "db down")
	})
}

func TestOrderStatusReportJob_Start(t *testing.T) {
	t.Run("should reject a malformed schedule", func(t *testing.T) {
		logger, _ := bufferLogger()

		err := jobs.NewOrderStatusReportJob(new(MockOrderLister), "every minute", logger).Start()

		require.Error(t, err)
	})

	t.Run("should start and stop", func(t *testing.T) {
		logger, buf := bufferLogger()
		job := jobs.NewOrderStatusReportJob(new(MockOrderLister), "0 0 0 1 1 *", logger)

		require.NoError(t, job.Start())
		job.Stop()

		assert.Contains(t, buf.String(), "Order status report job stopped")
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should wrap start failures", func(t *testing.T) {
		logger, _ := bufferLogger()

		err := jobs.NewJobManager(new(MockOrderLister), "nonsense", logger).StartAll()

		require.ErrorContains(t, err, "failed to start order status report job")
	})
}
