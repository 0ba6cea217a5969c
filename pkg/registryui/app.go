package registryui

import (
	"context"
	"fmt"

	"github.com/myui-dev/myui/pkg/hooks"
	"github.com/myui-dev/myui/pkg/student"
	. "github.com/myui-dev/myui/pkg/vdom"
)

// App is the registry page. It owns the student list and the edit target and
// reloads the list after every change.
func App(p Props) *VNode {
	env := envOf(p)

	students, setStudents := hooks.UseState[[]student.Student](nil)
	loading, setLoading := hooks.UseState(true)
	loadErr, setLoadErr := hooks.UseState("")
	editing, setEditing := hooks.UseState[*student.Student](nil)
	version, setVersion := hooks.UseState(0)
	// Bumped after a successful save so the form remounts empty.
	formSeq, setFormSeq := hooks.UseState(0)

	reload := func() { setVersion.Update(func(v int) int { return v + 1 }) }

	hooks.UseEffect(func() hooks.Cleanup {
		stale := false
		var list []student.Student
		env.async(func(ctx context.Context) error {
			var err error
			list, err = env.Store.List(ctx)
			return err
		}, func(err error) {
			if stale {
				return
			}
			setLoading.Set(false)
			if err != nil {
				env.logger().Error("load students", "error", err)
				setLoadErr.Set("Could not load students: " + err.Error())
				return
			}
			setLoadErr.Set("")
			setStudents.Set(list)
		})
		return func() { stale = true }
	}, []any{version})

	hooks.UseEffect(func() hooks.Cleanup {
		if env.Subscribe == nil {
			return nil
		}
		return env.Subscribe(func() { env.Dispatch(reload) })
	}, []any{})

	save := func(s student.Student, done func(error)) {
		target := editing
		var saved student.Student
		env.async(func(ctx context.Context) error {
			var err error
			if target != nil {
				saved, err = env.Store.Update(ctx, target.ID, student.PatchFrom(s))
			} else {
				saved, err = env.Store.Create(ctx, s)
			}
			return err
		}, func(err error) {
			done(err)
			if err != nil {
				return
			}
			env.logger().Debug("student saved", "id", saved.ID, "update", target != nil)
			setEditing.Set(nil)
			setFormSeq.Update(func(n int) int { return n + 1 })
			reload()
			env.changed()
		})
	}

	remove := func(id int64) {
		env.async(func(ctx context.Context) error {
			return env.Store.Delete(ctx, id)
		}, func(err error) {
			if err != nil {
				setLoadErr.Set("Could not delete student: " + err.Error())
				return
			}
			if cur := setEditing.Get(); cur != nil && cur.ID == id {
				setEditing.Set(nil)
			}
			reload()
			env.changed()
		})
	}

	edit := func(s student.Student) {
		setEditing.Set(&s)
	}

	formKey := fmt.Sprintf("new-%d", formSeq)
	formProps := Props{"env": env, "onSave": save}
	if editing != nil {
		formKey = fmt.Sprintf("edit-%d", editing.ID)
		formProps["student"] = *editing
		formProps["editing"] = true
		formProps["onCancel"] = func() { setEditing.Set(nil) }
	}
	formProps["key"] = formKey

	return Div(Class("container"),
		H1("Student Registry"),
		C(StudentForm, formProps),
		If(loadErr != "", P(Class("error"), loadErr)),
		H2("Students"),
		C(StudentList, Props{
			"students": students,
			"loading":  loading,
			"onEdit":   edit,
			"onDelete": remove,
		}),
	)
}
