package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestList_EmptyMessageOnlyWhenEmpty(t *testing.T) {
	app := fiber.New()
	app.Get("/empty", func(c fiber.Ctx) error {
		return List(c, []string{}, 0, "nothing here")
	})
	app.Get("/full", func(c fiber.Ctx) error {
		return List(c, []string{"a"}, 1, "nothing here")
	})

	for path, want := range map[string]string{"/empty": "nothing here", "/full": ""} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		var body struct {
			Status int `json:"status"`
			Data   struct {
				Total        int    `json:"total"`
				EmptyMessage string `json:"empty_message"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		resp.Body.Close()
		if body.Status != fiber.StatusOK || body.Data.EmptyMessage != want {
			t.Fatalf("%s: unexpected body %+v", path, body)
		}
	}
}

func TestError_DefaultsMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Error(c, fiber.StatusServiceUnavailable, "", nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	var body SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != MessageServiceUnavailable {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
