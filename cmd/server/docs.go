package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Raffleland Registry API
// @version         0.1.0
// @description     Raffle registry: asynchronous creation, paid entries, draws and the funds ledger.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
