package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Votingman Tier API
// @version         0.1.0
// @description     Seasonal ranking, MMR and tier endpoints for sentiment polls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
