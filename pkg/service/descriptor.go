// Структуры дескриптора инструмента и их JSON сериализация.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToolDescriptor — структурированное описание одного вызываемого метода,
// в форме, которую потребляют function-calling API моделей.
//
// Иммутабелен после генерации.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
}

// ParamInfo — схема одного параметра.
type ParamInfo struct {
	// Type — тип параметра в нижнем регистре ("int", "string", "color")
	Type string `json:"type"`

	// Description — описание из ":param <name>:" маркера документации
	// (пустая строка если маркер не найден)
	Description string `json:"description"`

	// Enum — имена членов перечисления в порядке объявления.
	// Присутствует только когда тип параметра — перечисление.
	Enum []string `json:"enum,omitempty"`
}

// Property — параметр с именем, элемент упорядоченного списка properties.
type Property struct {
	Name string
	ParamInfo
}

// ParameterSchema — схема всех параметров метода.
//
// Properties хранится срезом, а не map: порядок объявления параметров
// обязан сохраняться и в Go-структуре, и в JSON представлении.
type ParameterSchema struct {
	Type       string     // Всегда "object"
	Properties []Property // В порядке объявления параметров
	Required   []string   // Параметры без значения по умолчанию, в порядке объявления
}

// Property ищет параметр по имени.
func (s ParameterSchema) Property(name string) (ParamInfo, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.ParamInfo, true
		}
	}
	return ParamInfo{}, false
}

// MarshalJSON сериализует схему, сохраняя порядок properties.
//
// Стандартный map[string]... не годится: Go рандомизирует порядок ключей,
// а контракт требует порядок объявления параметров.
func (s ParameterSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)

	typeJSON, err := json.Marshal(s.Type)
	if err != nil {
		return nil, err
	}
	buf.Write(typeJSON)

	buf.WriteString(`,"properties":{`)
	for i, p := range s.Properties {
		if i > 0 {
			buf.WriteByte(',')
		}
		nameJSON, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		infoJSON, err := json.Marshal(p.ParamInfo)
		if err != nil {
			return nil, err
		}
		buf.Write(nameJSON)
		buf.WriteByte(':')
		buf.Write(infoJSON)
	}
	buf.WriteByte('}')

	buf.WriteString(`,"required":`)
	required := s.Required
	if required == nil {
		required = []string{}
	}
	requiredJSON, err := json.Marshal(required)
	if err != nil {
		return nil, err
	}
	buf.Write(requiredJSON)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON разбирает схему, сохраняя порядок ключей properties.
//
// Используется токенный обход json.Decoder — обычный Unmarshal в map
// потерял бы порядок.
func (s *ParameterSchema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parameter schema: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("parameter schema: expected string key, got %v", keyTok)
		}

		switch key {
		case "type":
			if err := dec.Decode(&s.Type); err != nil {
				return fmt.Errorf("parameter schema type: %w", err)
			}

		case "required":
			if err := dec.Decode(&s.Required); err != nil {
				return fmt.Errorf("parameter schema required: %w", err)
			}

		case "properties":
			props, err := decodeOrderedProperties(dec)
			if err != nil {
				return err
			}
			s.Properties = props

		default:
			// Неизвестные ключи пропускаем
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}

	// Закрывающая '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// decodeOrderedProperties читает объект properties токен за токеном.
func decodeOrderedProperties(dec *json.Decoder) ([]Property, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parameter schema properties: expected object, got %v", tok)
	}

	var props []Property
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parameter schema properties: expected string key, got %v", keyTok)
		}

		var info ParamInfo
		if err := dec.Decode(&info); err != nil {
			return nil, fmt.Errorf("parameter '%s': %w", name, err)
		}
		props = append(props, Property{Name: name, ParamInfo: info})
	}

	// Закрывающая '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return props, nil
}
