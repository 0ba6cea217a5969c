package registryui

import (
	"strconv"

	"github.com/myui-dev/myui/pkg/student"
	. "github.com/myui-dev/myui/pkg/vdom"
)

// StudentList renders one keyed StudentCard per student.
func StudentList(p Props) *VNode {
	students, _ := p["students"].([]student.Student)
	loading, _ := p["loading"].(bool)
	onEdit, _ := p["onEdit"].(func(student.Student))
	onDelete, _ := p["onDelete"].(func(int64))

	switch {
	case loading && len(students) == 0:
		return P(Class("loading"), "Loading students...")
	case len(students) == 0:
		return P(Class("empty"), "No students registered yet.")
	}

	return Div(ID("studentList"),
		Range(students, func(s student.Student, _ int) *VNode {
			return C(StudentCard, Props{
				"key":      s.ID,
				"student":  s,
				"onEdit":   onEdit,
				"onDelete": onDelete,
			})
		}),
	)
}

// StudentCard shows one student with edit and delete buttons.
func StudentCard(p Props) *VNode {
	s, _ := p["student"].(student.Student)
	onEdit, _ := p["onEdit"].(func(student.Student))
	onDelete, _ := p["onDelete"].(func(int64))

	row := func(label, value string) *VNode {
		return Div(Span(label+":"), " ", value)
	}

	return Div(Class("student-card"), Data("id", strconv.FormatInt(s.ID, 10)),
		row("Name", s.Name),
		row("DOB", s.DOB),
		row("Gender", s.Gender),
		row("State", s.State),
		row("City", s.City),
		row("Pincode", s.Pincode),
		Div(Class("actions"),
			Button(Class("edit-btn"), OnClick(func() {
				if onEdit != nil {
					onEdit(s)
				}
			}), "Edit"),
			Button(Class("delete-btn"), OnClick(func() {
				if onDelete != nil {
					onDelete(s.ID)
				}
			}), "Delete"),
		),
	)
}
