package docs

import (
	"embed"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerFS embed.FS

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             resolveSwaggerHost(),
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Peer Scoring API",
	Description:      "Tracker announce accounting and peer point queries",
	InfoInstanceName: "swagger",
}

func init() {
	data, err := swaggerFS.ReadFile("swagger.json")
	if err != nil {
		log.Fatalf("failed to load swagger.json: %v", err)
	}
	SwaggerInfo.SwaggerTemplate = string(data)
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

func JSONHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		http.Error(w, "swagger spec not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func resolveSwaggerHost() string {
	rawHost := getEnv("SWAGGER_HOST", "")
	port := getEnv("SERVER_PORT", "8080")
	if rawHost != "" {
		if strings.Contains(rawHost, ":") || port == "80" || port == "443" {
			return rawHost
		}
		return rawHost + ":" + port
	}
	host := getEnv("SERVER_HOST", "0.0.0.0")
	if port != "80" && port != "443" {
		return host + ":" + port
	}
	return host
}
