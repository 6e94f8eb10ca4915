package domain

// CarNameAttribute is the attribute holding a car's display name.
const CarNameAttribute = "carName"

// Car is an item from the cars table. Attributes other than carName are
// passed through untouched.
type Car map[string]any

// Name returns the carName attribute, or "" when absent or not a string.
func (c Car) Name() string {
	name, _ := c[CarNameAttribute].(string)
	return name
}
