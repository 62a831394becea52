package api

import (
	"fmt"

	"github.com/arnowelzel/periodical/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetOptions(c *fiber.Ctx) error {
	config, err := handler.configs.Load(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to load options")
	}
	return c.JSON(config)
}

// UpdateOptions accepts a partial set of option values. Unknown names are
// rejected and the merged config must validate as a whole.
func (handler *Handler) UpdateOptions(c *fiber.Ctx) error {
	payload := map[string]interface{}{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	current, err := handler.configs.Load(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to load options")
	}

	raw := make(map[string]string, len(payload))
	for name, value := range payload {
		raw[name] = fmt.Sprint(value)
	}
	updated, err := services.ParseCycleConfigInput(current, raw)
	if err != nil {
		return serviceError(c, err, "invalid options")
	}
	if err := handler.configs.Save(c.UserContext(), updated); err != nil {
		return serviceError(c, err, "failed to save options")
	}

	snapshot, err := handler.predictions.Refresh(c.UserContext())
	if err != nil {
		return serviceError(c, err, "failed to recompute prediction")
	}
	return c.JSON(fiber.Map{
		"options":    updated,
		"statistics": snapshot.Statistics,
		"generation": snapshot.Generation,
	})
}
