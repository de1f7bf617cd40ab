// Package service превращает методы произвольного Go-объекта в описания
// инструментов для LLM и обратно — в реальные вызовы этих методов.
//
// Ошибки пакета — явные sentinel значения: возвращаются вверх
// по стеку и проверяются через errors.Is(), никаких panic.
package service

import "fmt"

// ErrMissingDocumentation возвращается когда у метода нет текста документации.
//
// Генерация дескриптора без описания бессмысленна: каталог показывается
// модели как меню действий, и описание — единственное, чем она руководствуется.
var ErrMissingDocumentation = fmt.Errorf("missing documentation")

// ErrMissingTypeAnnotation возвращается когда параметр не несёт
// пригодного объявленного типа (interface-типы, включая any).
//
// Отсутствие типа — жёсткая ошибка генерации, не тихий дефолт.
var ErrMissingTypeAnnotation = fmt.Errorf("missing type annotation")

// ErrUnknownAction возвращается диспетчером когда у сервиса нет
// публичного метода с запрошенным именем.
var ErrUnknownAction = fmt.Errorf("unknown action")
