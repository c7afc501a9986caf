package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// deviceIDHeader carries the client's device identifier. The identifier is
// not an authenticated identity; it only scopes data to one anonymous
// pseudo-user.
const deviceIDHeader = "X-Device-ID"

// resolveDeviceID picks the device identifier for a request: the
// X-Device-ID header wins, then an explicit body value, then the device_id
// query parameter. With none present a random identifier is synthesized for
// this single request; persisting it across requests is the client's job.
func resolveDeviceID(c *fiber.Ctx, bodyValue string) string {
	if id := c.Get(deviceIDHeader); id != "" {
		return id
	}
	if bodyValue != "" {
		return bodyValue
	}
	if id := c.Query("device_id"); id != "" {
		return id
	}

	return uuid.NewString()
}
