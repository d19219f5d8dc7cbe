// Package query builds the smart-query documents sent to the task manager
// contract.
package query

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// TasksDocument is the fixed document sent by the default invocation.
const TasksDocument = `{"get_tasks":{}}`

var (
	ErrInvalidJSON = errors.New("query document is not valid JSON")
	ErrNotVariant  = errors.New("query document must be an object with exactly one key")
)

type Empty struct{}

type Account struct {
	AccountID string `json:"account_id"`
}

// Msg is the contract's query enum. Exactly one field is set.
type Msg struct {
	GetTasks      *Empty   `json:"get_tasks,omitempty"`
	GetAgent      *Account `json:"get_agent,omitempty"`
	GetAgentIds   *Empty   `json:"get_agent_ids,omitempty"`
	GetAgentTasks *Account `json:"get_agent_tasks,omitempty"`

	raw []byte
}

// Document is a rendered query ready to hand to the node client.
type Document struct {
	name string
	body string
}

func (d Document) Name() string { return d.name }
func (d Document) String() string { return d.body }

// GetTasks returns the get_tasks document. It never varies.
func GetTasks() Document {
	return Document{name: "get_tasks", body: TasksDocument}
}

func GetAgent(account string) Msg {
	return Msg{GetAgent: &Account{AccountID: account}}
}

func GetAgentIds() Msg {
	return Msg{GetAgentIds: &Empty{}}
}

func GetAgentTasks(account string) Msg {
	return Msg{GetAgentTasks: &Account{AccountID: account}}
}

// Raw wraps a caller supplied document. It is checked for shape only; the
// contract decides whether the variant exists.
func Raw(doc string) (Msg, error) {
	if _, err := variantName(doc); err != nil {
		return Msg{}, err
	}
	return Msg{raw: []byte(doc)}, nil
}

// Document renders m to its compact JSON form.
func (m Msg) Document() (Document, error) {
	var body []byte
	if m.raw != nil {
		body = m.raw
	} else {
		b, err := json.Marshal(m)
		if err != nil {
			return Document{}, fmt.Errorf("marshal query: %w", err)
		}
		body = b
	}
	name, err := variantName(string(body))
	if err != nil {
		return Document{}, err
	}
	return Document{name: name, body: string(body)}, nil
}

func variantName(doc string) (string, error) {
	if !gjson.Valid(doc) {
		return "", ErrInvalidJSON
	}
	res := gjson.Parse(doc)
	if !res.IsObject() {
		return "", ErrNotVariant
	}
	var (
		name  string
		count int
	)
	res.ForEach(func(key, _ gjson.Result) bool {
		name = key.String()
		count++
		return count < 2
	})
	if count != 1 {
		return "", ErrNotVariant
	}
	return name, nil
}
