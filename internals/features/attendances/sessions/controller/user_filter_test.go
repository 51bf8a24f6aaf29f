package controller

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserFilter(t *testing.T) {
	ids, err := parseUserFilter("  ")
	require.NoError(t, err)
	assert.Nil(t, ids)

	id := uuid.New()
	ids, err = parseUserFilter(" " + id.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids)

	_, err = parseUserFilter("bukan-uuid")
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}
