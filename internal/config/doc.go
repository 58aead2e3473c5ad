// Package config resolves runtime settings from layered sources (built-in
// defaults, an optional .env file, the ambient process environment) with
// precedence: Environment variables > .env file > Defaults. It exposes an
// immutable, strongly typed Settings struct constructed once at startup.
package config
