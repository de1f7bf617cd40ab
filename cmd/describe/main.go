// Describe — демонстрация рефлексивного контейнера сервисов.
//
// Регистрирует пример сервиса, печатает сгенерированные JSON дескрипторы
// и опционально выполняет вызов по имени метода:
//
//	./describe
//	./describe -call ConvertTemperature -args '{"value": 100, "scale": "celsius"}'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ilkoid/mrkl-agent/pkg/service"
)

// Scale — шкала температуры для демонстрации enum параметров.
type Scale string

const (
	Celsius    Scale = "celsius"
	Fahrenheit Scale = "fahrenheit"
	Kelvin     Scale = "kelvin"
)

// Members возвращает имена членов в порядке объявления.
func (Scale) Members() []string {
	return []string{"celsius", "fahrenheit", "kelvin"}
}

// WeatherService — пример сервиса для контейнера.
type WeatherService struct{}

// ConvertTemperature переводит значение из указанной шкалы в кельвины.
func (WeatherService) ConvertTemperature(value float64, scale Scale) (float64, error) {
	switch scale {
	case Celsius:
		return value + 273.15, nil
	case Fahrenheit:
		return (value-32)*5/9 + 273.15, nil
	case Kelvin, "":
		return value, nil
	default:
		return 0, fmt.Errorf("unknown scale '%s'", scale)
	}
}

// Forecast возвращает игрушечный прогноз для города.
func (WeatherService) Forecast(ctx context.Context, city string, days int) (string, error) {
	if city == "" {
		return "", fmt.Errorf("city is required")
	}
	if days <= 0 {
		days = 1
	}
	return fmt.Sprintf("%s: sunny for the next %d day(s)", city, days), nil
}

func main() {
	call := flag.String("call", "", "имя метода для вызова")
	args := flag.String("args", "{}", "JSON аргументы вызова")
	flag.Parse()

	container := service.NewContainer()
	err := container.Register(WeatherService{}, service.ServiceDoc{
		"ConvertTemperature": {
			Doc: `Convert a temperature reading to kelvin.
:param value: the temperature value to convert
:param scale: the scale the value is expressed in`,
			Params:   []string{"value", "scale"},
			Defaults: 1,
		},
		"Forecast": {
			Doc: `Return a weather forecast for a city.
:param city: the city to forecast
:param days: how many days ahead`,
			Params:   []string{"city", "days"},
			Defaults: 1,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering service: %v\n", err)
		os.Exit(1)
	}

	if *call != "" {
		result, err := container.Call(context.Background(), service.FunctionCall{
			Name:      *call,
			Arguments: *args,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error calling '%s': %v\n", *call, err)
			os.Exit(1)
		}
		fmt.Printf("%v\n", result)
		return
	}

	descriptors, err := container.Describe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating descriptors: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(descriptors, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling descriptors: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
