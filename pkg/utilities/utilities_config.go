package utilities

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const EnvPrefix = "FAIRPASS_"

type JsonConfigObj[T any] interface {
	ConvertToDomain() T
}

// ReadConfig decodes the JSON file into T, lets FAIRPASS_* variables override it
// and converts the result to its domain form.
func ReadConfig[T JsonConfigObj[U], U any](file string) (U, error) {
	var empty U

	fileContent, err := os.ReadFile(file)
	if err != nil {
		return empty, err
	}

	var config T
	if err := json.Unmarshal(fileContent, &config); err != nil {
		return empty, err
	}

	if err := env.ParseWithOptions(&config, env.Options{Prefix: EnvPrefix}); err != nil {
		return empty, err
	}

	return config.ConvertToDomain(), nil
}

// LoadEnvironment loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvironment(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func ConvertJsonArrayToDomain[T JsonConfigObj[U], U any](jsonArray []T) []U {
	domainArray := make([]U, 0, len(jsonArray))
	for _, item := range jsonArray {
		domainArray = append(domainArray, item.ConvertToDomain())
	}
	return domainArray
}
