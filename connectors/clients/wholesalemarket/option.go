package wholesalemarket

import (
	"fmt"
	"time"

	"github.com/maelgrv/spotflex/connectors"
)

func WithStartDate(startDate time.Time) connectors.Option {
	return func(c connectors.Client) error {
		if w, ok := c.(*Client); ok {
			w.startDate = startDate
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithStartDate", "wholesale_market")
	}
}

func WithEndDate(endDate time.Time) connectors.Option {
	return func(c connectors.Client) error {
		if w, ok := c.(*Client); ok {
			w.endDate = endDate
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithEndDate", "wholesale_market")
	}
}

// WithBaseURL redirects the client, e.g. at a local mock server.
func WithBaseURL(url string) connectors.Option {
	return func(c connectors.Client) error {
		if w, ok := c.(*Client); ok {
			w.baseURL = url
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithBaseURL", "wholesale_market")
	}
}
