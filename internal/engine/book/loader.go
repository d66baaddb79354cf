package book

import (
	"fmt"

	"github.com/spf13/viper"

	"persona_chess/internal/domain/game"
)

type bookFile struct {
	White []Entry `mapstructure:"white"`
	Black []Entry `mapstructure:"black"`
}

// Load returns the built-in tables extended with the entries of a JSON or
// YAML book file. File entries are appended, so built-in keys keep priority.
func Load(path string) (*Book, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read book %s: %w", path, err)
	}

	var f bookFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode book %s: %w", path, err)
	}
	if err := validate(f.White); err != nil {
		return nil, fmt.Errorf("book %s white: %w", path, err)
	}
	if err := validate(f.Black); err != nil {
		return nil, fmt.Errorf("book %s black: %w", path, err)
	}

	white := append(append([]Entry{}, whiteEntries...), f.White...)
	black := append(append([]Entry{}, blackEntries...), f.Black...)
	return New(white, black), nil
}

func validate(entries []Entry) error {
	for i, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("entry %d: empty key", i)
		}
		if len(e.Moves) == 0 {
			return fmt.Errorf("entry %d (%s): no moves", i, e.Key)
		}
		for _, m := range e.Moves {
			if _, ok := game.ParseUCI(m.UCI()); !ok {
				return fmt.Errorf("entry %d (%s): bad move %q", i, e.Key, m.UCI())
			}
		}
	}
	return nil
}
