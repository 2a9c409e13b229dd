// FILE: lixenwraith/decouple/binding.go
package decouple

// Binding resolves one variable into one destination. Bindings are built
// with Scalar and List and applied together by BindAll.
type Binding struct {
	variable string
	resolve  func(env Lookuper) (commit func(), err error)
}

// Variable returns the environment variable the binding reads.
func (b Binding) Variable() string {
	return b.variable
}

// Scalar binds the variable name into dst through Resolve.
func Scalar[T any](dst *T, name string, def Value[T]) Binding {
	return Binding{
		variable: name,
		resolve: func(env Lookuper) (func(), error) {
			v, err := Resolve(env, name, def)
			if err != nil {
				return nil, err
			}
			return func() { *dst = v }, nil
		},
	}
}

// List binds the comma-separated variable name into dst through ResolveList.
func List[T any](dst *[]T, name string, def Value[[]T]) Binding {
	return Binding{
		variable: name,
		resolve: func(env Lookuper) (func(), error) {
			v, err := ResolveList(env, name, def)
			if err != nil {
				return nil, err
			}
			return func() { *dst = v }, nil
		},
	}
}

// BindAll resolves bindings in order and stops at the first error, which is
// returned unwrapped. Destinations are written only after every binding
// resolved, so a failure leaves all of them untouched.
func BindAll(env Lookuper, bindings ...Binding) error {
	commits := make([]func(), 0, len(bindings))
	for _, b := range bindings {
		if b.resolve == nil {
			continue
		}
		commit, err := b.resolve(env)
		if err != nil {
			return err
		}
		commits = append(commits, commit)
	}

	for _, commit := range commits {
		commit()
	}
	return nil
}
