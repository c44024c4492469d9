package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradeNotional(t *testing.T) {
	tr := Trade{Time: "2024-01-15 09:30:00", Symbol: "AAPL", Price: 150.25, Volume: 1000}
	assert.InDelta(t, 150250.0, tr.Notional(), 1e-9)
	assert.Equal(t, 0.0, Trade{Price: 10}.Notional())
}
