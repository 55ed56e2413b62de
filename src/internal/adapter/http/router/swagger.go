package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func registerSwaggerRoutes(mux chi.Router) {
	mux.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.Get("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.Get("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Brokerage Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Brokerage Ledger API",
    "version": "1.0.0"
  },
  "paths": {
    "/health": {
      "get": {
        "summary": "Liveness and store reachability",
        "tags": [
          "system"
        ],
        "responses": {
          "200": {
            "description": "OK"
          },
          "503": {
            "description": "Store unavailable"
          }
        }
      }
    },
    "/users/save": {
      "post": {
        "summary": "Register a client and open its account",
        "tags": [
          "users"
        ],
        "responses": {
          "201": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/RegisterUserRequest"
              }
            }
          }
        }
      }
    },
    "/users/user-info": {
      "get": {
        "summary": "Caller profile and account summary",
        "tags": [
          "users"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/movements/deposit": {
      "post": {
        "summary": "Deposit cash",
        "tags": [
          "movements"
        ],
        "responses": {
          "201": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/MovementRequest"
              }
            }
          }
        }
      }
    },
    "/movements/rescue": {
      "post": {
        "summary": "Withdraw cash",
        "tags": [
          "movements"
        ],
        "responses": {
          "201": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/MovementRequest"
              }
            }
          }
        }
      }
    },
    "/movements/history": {
      "get": {
        "summary": "Movement history (clients: own account, admins: most recent)",
        "tags": [
          "movements"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/transactions/buy": {
      "post": {
        "summary": "Buy stock",
        "tags": [
          "transactions"
        ],
        "responses": {
          "201": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/StockTransactionRequest"
              }
            }
          }
        }
      }
    },
    "/transactions/sell": {
      "post": {
        "summary": "Sell stock",
        "tags": [
          "transactions"
        ],
        "responses": {
          "201": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/StockTransactionRequest"
              }
            }
          }
        }
      }
    },
    "/transactions/getAll": {
      "get": {
        "summary": "Visible stock transactions",
        "tags": [
          "transactions"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/accounts/me": {
      "get": {
        "summary": "Caller account",
        "tags": [
          "accounts"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/accounts/cancel": {
      "post": {
        "summary": "Close the caller account",
        "tags": [
          "accounts"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/accounts/{id}/status": {
      "put": {
        "summary": "Change an account status (admin)",
        "tags": [
          "accounts"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "$ref": "#/components/schemas/AccountStatusUpdateRequest"
              }
            }
          }
        },
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ]
      }
    },
    "/wallet": {
      "get": {
        "summary": "Open positions valued at current quotes",
        "tags": [
          "wallet"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/wallet/{stockId}/quantity": {
      "get": {
        "summary": "Held quantity of one stock",
        "tags": [
          "wallet"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "stockId",
            "in": "path",
            "required": true,
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ]
      }
    },
    "/stocks": {
      "get": {
        "summary": "Listed stocks with current quotes",
        "tags": [
          "stocks"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ]
      }
    },
    "/stocks/{symbol}": {
      "get": {
        "summary": "Quote one stock by symbol, listing it when the provider knows it",
        "tags": [
          "stocks"
        ],
        "responses": {
          "200": {
            "description": "Success envelope"
          },
          "4XX": {
            "description": "Failure envelope with ledger error code"
          }
        },
        "security": [
          {
            "BasicAuth": []
          }
        ],
        "parameters": [
          {
            "name": "symbol",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ]
      }
    }
  },
  "components": {
    "securitySchemes": {
      "BasicAuth": {
        "type": "http",
        "scheme": "basic"
      }
    },
    "schemas": {
      "RegisterUserRequest": {
        "type": "object",
        "required": [
          "email",
          "password",
          "fullName",
          "birthDate"
        ],
        "properties": {
          "email": {
            "type": "string",
            "format": "email"
          },
          "password": {
            "type": "string",
            "minLength": 8
          },
          "fullName": {
            "type": "string"
          },
          "birthDate": {
            "type": "string",
            "format": "date"
          }
        }
      },
      "MovementRequest": {
        "type": "object",
        "required": [
          "amount"
        ],
        "properties": {
          "amount": {
            "type": "string",
            "example": "150.00"
          }
        }
      },
      "StockTransactionRequest": {
        "type": "object",
        "required": [
          "stockId",
          "quantity",
          "value"
        ],
        "properties": {
          "stockId": {
            "type": "integer",
            "format": "int64"
          },
          "quantity": {
            "type": "integer",
            "format": "int64"
          },
          "value": {
            "type": "string",
            "description": "Unit price",
            "example": "50.00"
          }
        }
      },
      "AccountStatusUpdateRequest": {
        "type": "object",
        "required": [
          "newStatus"
        ],
        "properties": {
          "newStatus": {
            "type": "string",
            "enum": [
              "ACTIVE",
              "BLOCKED",
              "CLOSED"
            ]
          }
        }
      }
    }
  }
}`
