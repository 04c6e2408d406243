package authpipe

import "errors"

var (
	// ErrBuilderReused is an exported constant or variable used by the authorization pipeline.
	ErrBuilderReused = errors.New("builder already used")
	// ErrRedisRequired is an exported constant or variable used by the authorization pipeline.
	ErrRedisRequired = errors.New("session persistence enabled but no redis client configured")
	// ErrInvalidConfig is an exported constant or variable used by the authorization pipeline.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrPipelineClosed is an exported constant or variable used by the authorization pipeline.
	ErrPipelineClosed = errors.New("pipeline closed")
)
