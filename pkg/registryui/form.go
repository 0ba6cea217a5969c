package registryui

import (
	"errors"

	"github.com/myui-dev/myui/pkg/dom"
	"github.com/myui-dev/myui/pkg/hooks"
	"github.com/myui-dev/myui/pkg/student"
	. "github.com/myui-dev/myui/pkg/vdom"
)

// StudentForm edits one student. Props:
//
//	student  student.Student           initial values (zero for a new student)
//	editing  bool                      switches the submit label to "Update Student"
//	onSave   func(student.Student, func(error))
//	onCancel func()                    optional
func StudentForm(p Props) *VNode {
	initial, _ := p["student"].(student.Student)
	editing, _ := p["editing"].(bool)
	onSave, _ := p["onSave"].(func(student.Student, func(error)))
	onCancel, _ := p["onCancel"].(func())

	name, _, nameB := hooks.UseModel(initial.Name)
	dob, _, dobB := hooks.UseModel(initial.DOB)
	gender, _, genderB := hooks.UseModel(initial.Gender)
	state, _, stateB := hooks.UseModel(initial.State)
	city, _, cityB := hooks.UseModel(initial.City)
	pincode, _, pincodeB := hooks.UseModel(initial.Pincode)
	formErr, setFormErr := hooks.UseState("")
	saving, setSaving := hooks.UseState(false)

	submit := func(*dom.Event) {
		if saving {
			return
		}
		s := student.Student{Name: name, DOB: dob, Gender: gender, State: state, City: city, Pincode: pincode}
		if err := s.Validate(); err != nil {
			setFormErr.Set(message(err))
			return
		}
		setFormErr.Set("")
		if onSave == nil {
			return
		}
		setSaving.Set(true)
		onSave(s, func(err error) {
			setSaving.Set(false)
			if err != nil {
				setFormErr.Set(message(err))
			}
		})
	}

	label := "Add Student"
	if editing {
		label = "Update Student"
	}

	return Form(Class("student-form"), OnSubmit(PreventDefault(submit)),
		field("name", "Name", Input(ID("name"), Type("text"), Placeholder("Full name"), nameB.Attrs())),
		field("dob", "Date of Birth", Input(ID("dob"), Type("date"), dobB.Attrs())),
		field("gender", "Gender", Select(ID("gender"), genderB.Attrs(),
			options("Select Gender", student.Genders, gender),
		)),
		field("state", "State", Select(ID("state"), stateB.Attrs(),
			options("Select State", States, state),
		)),
		field("city", "City", Input(ID("city"), Type("text"), cityB.Attrs())),
		field("pincode", "Pincode", Input(ID("pincode"), Type("text"), MaxLength(6), Pattern("[0-9]{6}"), pincodeB.Attrs())),
		If(formErr != "", P(Class("error"), formErr)),
		Div(Class("actions"),
			Button(ID("submitBtn"), Type("submit"), Disabled(saving), label),
			cancelButton(editing, onCancel),
		),
	)
}

// cancelButton is nil unless an edit is in progress and can be abandoned.
func cancelButton(editing bool, onCancel func()) *VNode {
	if !editing || onCancel == nil {
		return nil
	}
	return Button(Type("button"), Class("cancel-btn"), OnClick(onCancel), "Cancel")
}

func field(id, label string, control *VNode) *VNode {
	return Div(Class("field"),
		Label(For(id), label),
		control,
	)
}

func options(placeholder string, values []string, selected string) []*VNode {
	out := make([]*VNode, 0, len(values)+1)
	out = append(out, Option(Value(""), placeholder))
	for _, v := range values {
		out = append(out, Option(Key(v), Value(v), Selected(v == selected), v))
	}
	return out
}

func message(err error) string {
	var ve *student.ValidationError
	if errors.As(err, &ve) {
		return ve.Field + " " + ve.Message
	}
	return err.Error()
}
