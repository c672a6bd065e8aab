package main

// @title Pharmacy API
// @version 1.0
// @description Inventory, sales, returns and back-office endpoints of the pharmacy backend

// @host localhost:4000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Items
// @tag.description Item master and stock lookup

// @tag.name Batches
// @tag.description Stock lots by expiry

// @tag.name Purchases
// @tag.description Goods receipt

// @tag.name Sales
// @tag.description Checkout with soonest-expiry allocation

// @tag.name Returns
// @tag.description Sale returns

// @tag.name Reorders
// @tag.description Replenishment requests

// @tag.name Health
// @tag.description Health check endpoints
