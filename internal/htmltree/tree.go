// Package htmltree даёт минимальный интерфейс навигации по HTML-документу:
// XPath (htmlquery) для позиционной адресации и CSS (goquery) для выборки по id.
//
// Отсутствие элемента всегда выражается пустым срезом. Решение «падать или
// пропускать» принимает вызывающий код; для fail-fast есть First, Nth и RequireAttr,
// которые возвращают ошибку, оборачивающую ErrNotFound.
package htmltree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ErrNotFound ожидаемый элемент, ячейка или атрибут отсутствует на странице
var ErrNotFound = errors.New("element not found")

type Node interface {
	// QueryAll выполняет XPath относительно узла
	QueryAll(xpath string) ([]Node, error)
	// Find выполняет CSS-селектор среди потомков узла
	Find(selector string) []Node
	Attr(name string) (string, bool)
	// Text возвращает текстовое содержимое узла и всех потомков без обрезки пробелов
	Text() string
}

type node struct {
	n *html.Node
}

// Parse разбирает HTML. Парсер снисходительный: битая разметка не является ошибкой.
func Parse(r io.Reader) (Node, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return node{n: doc}, nil
}

func ParseBytes(raw []byte) (Node, error) {
	return Parse(bytes.NewReader(raw))
}

func (x node) QueryAll(expr string) ([]Node, error) {
	found, err := htmlquery.QueryAll(x.n, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	return wrap(found), nil
}

func (x node) Find(selector string) []Node {
	return wrap(goquery.NewDocumentFromNode(x.n).Find(selector).Nodes)
}

func (x node) Attr(name string) (string, bool) {
	for _, a := range x.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (x node) Text() string {
	return htmlquery.InnerText(x.n)
}

func wrap(nodes []*html.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, node{n: n})
	}
	return out
}

// First возвращает первый узел по XPath
func First(n Node, expr string) (Node, error) {
	nodes, err := n.QueryAll(expr)
	if err != nil {
		return nil, err
	}
	return Nth(nodes, 0, expr)
}

// Nth возвращает i-й узел; what попадает в текст ошибки
func Nth(nodes []Node, i int, what string) (Node, error) {
	if i < 0 || i >= len(nodes) {
		return nil, fmt.Errorf("%w: %s[%d] (matched %d)", ErrNotFound, what, i, len(nodes))
	}
	return nodes[i], nil
}

// RequireAttr возвращает значение атрибута или ErrNotFound
func RequireAttr(n Node, name string) (string, error) {
	val, ok := n.Attr(name)
	if !ok {
		return "", fmt.Errorf("%w: attribute %q", ErrNotFound, name)
	}
	return val, nil
}

// FirstText текст первого узла по XPath, обрезанный по краям
func FirstText(n Node, expr string) (string, error) {
	found, err := First(n, expr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(found.Text()), nil
}

// Attrs собирает значения атрибута у всех узлов, где он есть
func Attrs(nodes []Node, name string) []string {
	var values []string
	for _, n := range nodes {
		if val, ok := n.Attr(name); ok {
			values = append(values, val)
		}
	}
	return values
}
