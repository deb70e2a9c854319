package http

import (
	"embed"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

type schemas struct {
	movement *gojsonschema.Schema
	reversal *gojsonschema.Schema
	signup   *gojsonschema.Schema
	card     *gojsonschema.Schema
	client   *gojsonschema.Schema
}

func loadSchemas() schemas {
	return schemas{
		movement: mustSchema("movement"),
		reversal: mustSchema("reversal"),
		signup:   mustSchema("signup"),
		card:     mustSchema("card"),
		client:   mustSchema("client"),
	}
}

func mustSchema(name string) *gojsonschema.Schema {
	b, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
	if err != nil {
		panic(err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(err)
	}
	return schema
}

// bindValid validates the raw body against schema and decodes it into dst.
// On failure it writes a 400 and returns false.
func bindValid(c *gin.Context, schema *gojsonschema.Schema, dst any) bool {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		badRequest(c, "request body is required")
		return false
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		badRequest(c, "malformed json")
		return false
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		badRequest(c, strings.Join(msgs, "; "))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}
