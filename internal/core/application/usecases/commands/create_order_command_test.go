package commands_test

import (
	"testing"

	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/domain/model/kernel"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(id, 1001, order.WaitDeliver)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.BusinessKey(1001), cmd.BusinessKey())
	assert.Equal(t, order.WaitDeliver, cmd.Status())
	require.NoError(t, cmd.Validate())
}

func TestNewCreateOrderCommand_DefaultStatus(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), 1001, order.Unknown)
	require.NoError(t, err)
	assert.Equal(t, order.Unknown, cmd.Status())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, 1001, order.Unknown)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_InvalidBusinessKey(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), 0, order.Unknown)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewCreateOrderCommand_InvalidStatus(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), 1001, order.Status(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCreateOrderCommand_ZeroValueIsNotConstructed(t *testing.T) {
	err := commands.CreateOrderCommand{}.Validate()
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
