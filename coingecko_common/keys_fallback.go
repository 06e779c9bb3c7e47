package coingecko_common

import (
	"fmt"

	"go.uber.org/multierr"
)

// KeyExecutor performs one attempt with the given key. ok reports whether
// the attempt produced a usable result.
type KeyExecutor[T any] func(apiKey APIKey) (result T, ok bool, err error)

// CreateFailCallback returns a callback that puts failed keys in backoff
func CreateFailCallback(keyManager IAPIKeyManager) func(APIKey) {
	return func(apiKey APIKey) {
		if apiKey.Key != "" {
			keyManager.MarkKeyAsFailed(apiKey.Key)
		}
	}
}

// TryWithKeys runs executor with each key in order until one succeeds.
// onFailed is called for every key whose attempt failed.
func TryWithKeys[T any](keys []APIKey, logPrefix string, executor KeyExecutor[T], onFailed func(APIKey)) (T, error) {
	var zero T
	var errs error

	for _, apiKey := range keys {
		result, ok, err := executor(apiKey)
		if err == nil && ok {
			return result, nil
		}
		if err == nil {
			err = fmt.Errorf("empty result")
		}

		log.Warnf("%s: Request with key type %s failed: %v", logPrefix, apiKey.Type, err)
		errs = multierr.Append(errs, fmt.Errorf("key type %s: %w", apiKey.Type, err))
		if onFailed != nil {
			onFailed(apiKey)
		}
	}

	if errs == nil {
		return zero, fmt.Errorf("%s: no API keys available", logPrefix)
	}
	return zero, fmt.Errorf("%s: all API keys failed: %w", logPrefix, errs)
}
