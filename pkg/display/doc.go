// Package display holds the display model and renders it into a frame buffer.
package display
