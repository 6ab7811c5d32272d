package config

import (
	"fmt"
	"time"
)

// Color is a packed 0xRRGGBBAA value.
type Color uint32

// RGBA unpacks the channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Opacity returns alpha in [0, 1].
func (c Color) Opacity() float64 {
	_, _, _, a := c.RGBA()
	return float64(a) / 255
}

// Duration is a time.Duration decoded from strings like "24h".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
