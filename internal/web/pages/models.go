package pages

import (
	"strconv"

	"github.com/benpsk/item-service/internal/item"
	"github.com/benpsk/item-service/internal/validation"
	"github.com/benpsk/item-service/internal/web/components"
)

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}

type ItemsPageModel struct {
	AppName string
	AppURL  string
	Items   []item.Item
}

func itemsMeta() components.PageMeta {
	return components.PageMeta{Title: "Items", Description: "Item list", Path: "/items"}
}

type ItemPageModel struct {
	AppName string
	AppURL  string
	Item    item.Item
	Saved   bool
}

func itemMeta(m ItemPageModel) components.PageMeta {
	return components.PageMeta{Title: m.Item.ItemName, Path: itemPath(m.Item.ID)}
}

// FormValues holds what the user typed, kept as strings so rejected input is
// shown back exactly as submitted.
type FormValues struct {
	ItemName string
	Price    string
	Quantity string
}

func FormValuesFromItem(it item.Item) FormValues {
	return FormValues{
		ItemName: it.ItemName,
		Price:    strconv.Itoa(it.Price),
		Quantity: strconv.Itoa(it.Quantity),
	}
}

type FormMode string

const (
	FormModeAdd  FormMode = "add"
	FormModeEdit FormMode = "edit"
)

type ItemFormPageModel struct {
	AppName   string
	AppURL    string
	Mode      FormMode
	ItemID    int64
	Values    FormValues
	Errors    *validation.Errors
	Catalog   *validation.Catalog
	CSRFToken string
}

func formMeta(m ItemFormPageModel) components.PageMeta {
	return components.PageMeta{Title: m.title(), Path: m.action()}
}

func (m ItemFormPageModel) action() string {
	if m.Mode == FormModeEdit {
		return itemPath(m.ItemID) + "/edit"
	}
	return "/items/add"
}

func (m ItemFormPageModel) cancelPath() string {
	if m.Mode == FormModeEdit {
		return itemPath(m.ItemID)
	}
	return "/items"
}

func (m ItemFormPageModel) title() string {
	if m.Mode == FormModeEdit {
		return "Edit item"
	}
	return "Add item"
}

func (m ItemFormPageModel) fieldMessage(field string) (string, bool) {
	fe, ok := m.Errors.FieldError(field)
	if !ok {
		return "", false
	}
	return m.Catalog.Message(fe), true
}

type NotFoundPageModel struct {
	AppName string
	AppURL  string
	Message string
}

func (m NotFoundPageModel) message() string {
	if m.Message == "" {
		return "The page you requested does not exist."
	}
	return m.Message
}
