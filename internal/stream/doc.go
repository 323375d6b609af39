// Package stream publishes engine frames to websocket clients and feeds
// their commands back into the frame loop.
//
// The engine is single-threaded. Connections never touch it directly: they
// queue [Command] values on the [Hub], and the frame goroutine applies them
// with [Hub.Drain] before advancing.
package stream
