// FILE: lixenwraith/decouple/configurable.go
package decouple

// Configurable is implemented by types that know how to populate themselves
// from an environment, typically with BindAll over their own fields.
// Parse must leave the receiver unchanged when it returns an error.
type Configurable interface {
	Parse(env Lookuper) error
}

// Load returns a new T populated from env. When *T implements Configurable
// its Parse method is used, otherwise T is bound by reflection as in Bind.
func Load[T any](env Lookuper) (T, error) {
	var out T
	if c, ok := any(&out).(Configurable); ok {
		if err := c.Parse(env); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}

	if err := Bind(env, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
