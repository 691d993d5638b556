package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StationTime é uma parada da rota com seu horário de partida.
type StationTime struct {
	Station string
	Time    string
}

// StationTimes preserva a ordem das paradas. No JSON é um objeto cujas chaves
// são estações; a ordem das chaves do documento é a ordem da rota, então o
// tipo não pode ser um map.
type StationTimes []StationTime

// First retorna a primeira estação da rota.
func (st StationTimes) First() (string, bool) {
	if len(st) == 0 {
		return "", false
	}
	return st[0].Station, true
}

// Last retorna a última estação da rota.
func (st StationTimes) Last() (string, bool) {
	if len(st) == 0 {
		return "", false
	}
	return st[len(st)-1].Station, true
}

// Time retorna o horário de partida da estação, comparando o nome exato.
func (st StationTimes) Time(station string) (string, bool) {
	for _, entry := range st {
		if entry.Station == station {
			return entry.Time, true
		}
	}
	return "", false
}

func (st StationTimes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range st {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Station)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Time)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (st *StationTimes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*st = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("station_times: expected JSON object, got %v", tok)
	}

	entries := StationTimes{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		station, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("station_times: expected string key, got %v", keyTok)
		}

		var departure string
		if err := dec.Decode(&departure); err != nil {
			return fmt.Errorf("station_times: value for %q: %w", station, err)
		}

		entries = append(entries, StationTime{Station: station, Time: departure})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*st = entries
	return nil
}
