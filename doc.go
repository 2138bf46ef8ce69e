// Package consolebridge provides top-level metadata for the Console Bridge API.
//
// @title Console Bridge API
// @version 0.0.0
// @description Live event stream session bridge for the customer-data platform admin console.
// @BasePath /
// @securityDefinitions.apikey OperatorAuth
// @in header
// @name Authorization
// @description Provide the operator bearer token as `Bearer <token>`.
package consolebridge
