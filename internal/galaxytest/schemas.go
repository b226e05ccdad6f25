package galaxytest

import "github.com/xeipuuv/gojsonschema"

var userSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["username", "password", "groups"],
	"properties": {
		"username": {"type": "string", "minLength": 1, "maxLength": 150},
		"password": {"type": "string"},
		"first_name": {"type": "string"},
		"last_name": {"type": "string"},
		"email": {"type": "string"},
		"is_superuser": {"type": "boolean"},
		"groups": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name"],
				"properties": {
					"id": {"type": "integer"},
					"name": {"type": "string"},
					"pulp_href": {"type": "string"}
				}
			}
		}
	}
}`)

var groupSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 150}
	},
	"additionalProperties": false
}`)

var permissionSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["permission"],
	"properties": {
		"permission": {"type": "string", "pattern": "^[a-z_]+\\.[a-z_]+$"}
	},
	"additionalProperties": false
}`)
