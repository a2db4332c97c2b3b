package profile

// schema mirrors the bounds the public API enforces before the engine runs.
const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["math_score", "science_score", "english_score", "gpa", "skills", "interests"],
  "properties": {
    "math_score":    {"type": "number", "minimum": 0, "maximum": 100},
    "science_score": {"type": "number", "minimum": 0, "maximum": 100},
    "english_score": {"type": "number", "minimum": 0, "maximum": 100},
    "gpa":           {"type": "number", "minimum": 0, "maximum": 4.0},
    "skills": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1, "maximum": 5}
    },
    "interests": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1, "maximum": 5}
    },
    "academic_level": {"type": "string"},
    "certifications": {"type": "array", "items": {"type": "string"}}
  }
}`
