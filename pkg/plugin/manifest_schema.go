package plugin

// ManifestSchema is the JSON Schema every manifest is validated against
// before structural checks run.
const ManifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version"],
  "properties": {
    "name": {
      "type": "string",
      "pattern": "^[a-z0-9-]+$",
      "description": "Unique plugin name"
    },
    "version": {
      "type": "string",
      "pattern": "^\\d+\\.\\d+\\.\\d+$",
      "description": "Semver version"
    },
    "description": { "type": "string" },
    "author": { "type": "string" },
    "capabilities": {
      "type": "array",
      "items": { "type": "string", "minLength": 1 }
    },
    "commands": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {
            "type": "string",
            "pattern": "^[a-z0-9][a-z0-9-]*$"
          },
          "description": { "type": "string" },
          "options": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "type"],
              "properties": {
                "name": { "type": "string", "minLength": 1 },
                "type": { "type": "string", "enum": ["string", "int", "bool"] },
                "required": { "type": "boolean" },
                "description": { "type": "string" }
              }
            }
          },
          "output": {
            "type": "object",
            "properties": {
              "schema": { "type": "object" },
              "template": { "type": "string" }
            }
          }
        }
      }
    },
    "stateSchemas": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["namespace", "schemaVersion"],
        "properties": {
          "namespace": { "type": "string", "minLength": 1 },
          "schemaVersion": { "type": "integer", "minimum": 1 },
          "schema": { "type": "object" },
          "scope": { "type": "string", "enum": ["", "plugin", "global"] }
        }
      }
    }
  }
}`
