package commands_test

import (
	"testing"

	"orderstate/internal/core/application/usecases/commands"
	"orderstate/internal/core/domain/model/order"
	"orderstate/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChangeOrderStatusCommand(t *testing.T) {
	t.Run("should keep key and event", func(t *testing.T) {
		cmd, err := commands.NewChangeOrderStatusCommand(1001, order.Delivery)

		require.NoError(t, err)
		assert.Equal(t, order.BusinessKey(1001), cmd.BusinessKey())
		assert.Equal(t, order.Delivery, cmd.Event())
		require.NoError(t, cmd.Validate())
	})

	t.Run("should reject a non-positive key", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(-1, order.Payed)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an unknown event", func(t *testing.T) {
		_, err := commands.NewChangeOrderStatusCommand(1001, order.UnknownEvent)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value should not validate", func(t *testing.T) {
		err := commands.ChangeOrderStatusCommand{}.Validate()

		require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
	})
}
