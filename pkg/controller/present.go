package controller

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/schedule"
	"github.com/goliatone/go-formflow/pkg/widget"
)

// applyValue mirrors the stored value of field onto its controls.
func (c *Controller) applyValue(field model.Field) {
	values := c.values[field.ID]
	first := ""
	if len(values) > 0 {
		first = values[0]
	}

	for _, control := range c.tree.Controls(field.ID) {
		switch field.Kind {
		case model.KindTextarea:
			control.SetText(first)
		case model.KindSelect:
			for _, opt := range control.Children {
				if opt.Kind == widget.KindElement && opt.Tag == "option" {
					opt.SetProp("selected", opt.Attr("value") == first)
				}
			}
		case model.KindCheckbox, model.KindRadio:
			control.SetProp("checked", contains(values, control.Attr("value")))
		default:
			if first == "" {
				control.SetProp("value", nil)
			} else {
				control.SetProp("value", first)
			}
		}
	}
}

// setFieldError shows message in the field's error slot, or hides the slot
// when message is empty, and flags the controls accordingly.
func (c *Controller) setFieldError(fieldID, message string) {
	slot := c.tree.ErrorSlot(fieldID)
	if message == "" {
		widget.Hide(slot, true)
		delete(c.shown, fieldID)
	} else {
		widget.Show(slot, message)
		c.shown[fieldID] = message
	}
	for _, control := range c.tree.Controls(fieldID) {
		control.ToggleClass(widget.ClassInvalid, message != "")
		control.SetProp("aria-invalid", message != "")
	}
}

func (c *Controller) clearFieldErrors() {
	for _, field := range c.def.Fields() {
		c.setFieldError(field.ID, "")
	}
}

// showBanner reveals one banner, hides the other and restarts the dismiss
// timer. The sequence number makes a superseded dismiss a no-op.
func (c *Controller) showBanner(success bool, message string) {
	show, hide := c.tree.SuccessBanner(), c.tree.ErrorBanner()
	if !success {
		show, hide = hide, show
	}
	widget.Hide(hide, false)
	widget.Show(show, message)
	c.message = message

	c.cancelDismiss()
	c.bannerSeq++
	seq := c.bannerSeq
	c.dismiss = c.cfg.scheduler.Schedule(c.cfg.dismissDelay, func() {
		c.dismissBanners(seq)
	})
}

func (c *Controller) dismissBanners(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.bannerSeq {
		return
	}
	c.dismiss = nil
	c.hideBanners()
}

// hideBanners hides both banners and invalidates any dismiss still pending.
func (c *Controller) hideBanners() {
	c.cancelDismiss()
	c.bannerSeq++
	widget.Hide(c.tree.SuccessBanner(), false)
	widget.Hide(c.tree.ErrorBanner(), false)
	c.message = ""
}

func (c *Controller) cancelDismiss() {
	if c.dismiss != nil {
		c.dismiss.Cancel()
		c.dismiss = nil
	}
}

// TextareaRows estimates how many rows value needs at the given column
// width, never fewer than minRows. Every line takes at least one row.
func TextareaRows(value string, columns, minRows int) int {
	if columns <= 0 {
		columns = defaultColumns
	}
	rows := 0
	for _, line := range strings.Split(value, "\n") {
		n := utf8.RuneCountInString(line)
		if n == 0 {
			rows++
			continue
		}
		rows += (n + columns - 1) / columns
	}
	if rows < minRows {
		return minRows
	}
	return rows
}

func (c *Controller) resizeField(fieldID string) {
	if !c.autoResize(fieldID) {
		return
	}
	value := ""
	if values := c.values[fieldID]; len(values) > 0 {
		value = values[0]
	}
	rows := TextareaRows(value, c.cfg.columns, c.cfg.minRows)
	for _, control := range c.tree.Controls(fieldID) {
		control.SetProp("rows", strconv.Itoa(rows))
	}
}

func (c *Controller) resizeAll() {
	for _, id := range c.tree.AutoResizeFields() {
		c.resizeField(id)
	}
}

func (c *Controller) scheduleResize(fieldID string) {
	if !c.autoResize(fieldID) {
		return
	}
	if task, ok := c.resize[fieldID]; ok {
		task.Cancel()
	}
	var task schedule.Task
	task = c.cfg.scheduler.Schedule(0, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.resize[fieldID] != task {
			return
		}
		delete(c.resize, fieldID)
		c.resizeField(fieldID)
	})
	c.resize[fieldID] = task
}

func (c *Controller) autoResize(fieldID string) bool {
	for _, control := range c.tree.Controls(fieldID) {
		if control.Flag(widget.AttrAutoResize) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
