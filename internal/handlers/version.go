package handlers

import (
	"github.com/giftdraw/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

var Version = "dev"

func GetVersion(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{"version": Version})
}
