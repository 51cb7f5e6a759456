package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           ttsd API
// @version         1.0
// @description     HTTP API for queued text-to-speech synthesis.
//
// @contact.name   ttsd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
