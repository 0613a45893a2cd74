package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailed(t *testing.T) {
	cause := errors.New("timeout")

	r := Failed(cause)

	assert.False(t, r.OK())
	assert.Zero(t, r.Price)
	assert.ErrorIs(t, r.Err, cause)
}

func TestPriceResult_OK(t *testing.T) {
	assert.True(t, PriceResult{Price: 10}.OK())
}
