package pricing

// responseSchema is the contract of a 2xx POST /loan/calculate body.
// Unknown fields are tolerated, missing or mistyped ones are not.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "schedule", "assets"],
  "definitions": {
    "row": {
      "type": "object",
      "required": ["month", "opening_balance", "payment", "interest", "principal", "ending_balance"],
      "properties": {
        "month": {"type": "integer", "minimum": 1},
        "opening_balance": {"type": "number"},
        "payment": {"type": "number"},
        "interest": {"type": "number"},
        "principal": {"type": "number"},
        "ending_balance": {"type": "number"}
      }
    },
    "rows": {"type": "array", "items": {"$ref": "#/definitions/row"}}
  },
  "properties": {
    "summary": {
      "type": "object",
      "required": ["total_collateral", "total_loan", "portfolio_ltv", "liquidation_ltv",
                   "margin_call_ltv", "interest_rate", "monthly_emi", "months", "analyst"],
      "properties": {
        "total_collateral": {"type": "number", "minimum": 0},
        "total_loan": {"type": "number", "minimum": 0},
        "portfolio_ltv": {"type": "number"},
        "liquidation_ltv": {"type": "number"},
        "margin_call_ltv": {"type": "number"},
        "interest_rate": {"type": "number"},
        "monthly_emi": {"type": "number"},
        "months": {"type": "integer", "enum": [6, 12, 18, 24, 36]},
        "analyst": {
          "type": "object",
          "required": ["markdown", "provider", "model", "used_llm"],
          "properties": {
            "markdown": {"type": "string"},
            "provider": {"type": "string"},
            "model": {"type": "string"},
            "used_llm": {"type": "boolean"}
          }
        }
      }
    },
    "schedule": {
      "type": "object",
      "required": ["portfolio", "assets", "payments"],
      "properties": {
        "portfolio": {"$ref": "#/definitions/rows"},
        "assets": {"type": "object", "additionalProperties": {"$ref": "#/definitions/rows"}},
        "payments": {"type": "object", "additionalProperties": {"type": "number"}}
      }
    },
    "assets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["symbol", "tier", "ltv", "base_rate", "risk_premium", "volatility_premium",
                     "interest_rate", "collateral_usd", "loan_usd", "pct_change_30d"],
        "properties": {
          "symbol": {"type": "string", "minLength": 1},
          "tier": {"type": "string"},
          "ltv": {"type": "number"},
          "base_rate": {"type": "number"},
          "risk_premium": {"type": "number"},
          "volatility_premium": {"type": "number"},
          "interest_rate": {"type": "number"},
          "collateral_usd": {"type": "number"},
          "loan_usd": {"type": "number"},
          "pct_change_30d": {"type": ["number", "null"]}
        }
      }
    }
  }
}`
