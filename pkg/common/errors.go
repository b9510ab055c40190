package common

import "fmt"

type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse Error: %s", e.Message)
}

type DownloadError struct {
	Message string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("Download Error: %s", e.Message)
}

type GeocodeError struct {
	Message string
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("Geocode Error: %s", e.Message)
}

type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration Error: %s", e.Message)
}

func NewParseError(message string) error {
	return &ParseError{Message: message}
}

func NewDownloadError(message string) error {
	return &DownloadError{Message: message}
}

func NewGeocodeError(message string) error {
	return &GeocodeError{Message: message}
}

func NewConfigError(message string) error {
	return &ConfigError{Message: message}
}
