package equipment

// Type identifies one supported equipment type. Values outside the closed
// set below are carried verbatim and treated as unrecognized.
type Type string

// The closed set of supported equipment types.
const (
	Laptop            Type = "laptop"
	Phone             Type = "phone"
	Tablet            Type = "tablet"
	Desktop           Type = "desktop"
	IndustrialMachine Type = "industrial_machine"
	Motor             Type = "motor"
	Pump              Type = "pump"
	Compressor        Type = "compressor"
	HVAC              Type = "hvac"
)

// Category groups equipment types into the two rule-dispatch families.
type Category int

const (
	// CategoryUnknown marks unrecognized equipment types. Only the
	// operating-hour rules apply to them.
	CategoryUnknown Category = iota

	// CategoryConsumer covers laptop, phone, tablet and desktop.
	CategoryConsumer

	// CategoryIndustrial covers industrial_machine, motor, pump,
	// compressor and hvac.
	CategoryIndustrial
)

// String returns the category name for logs and API responses.
func (c Category) String() string {
	switch c {
	case CategoryConsumer:
		return "consumer"
	case CategoryIndustrial:
		return "industrial"
	default:
		return "unknown"
	}
}

// categories resolves each known type to its category exactly once;
// rule dispatch branches on the category, never on list membership.
var categories = map[Type]Category{
	Laptop:            CategoryConsumer,
	Phone:             CategoryConsumer,
	Tablet:            CategoryConsumer,
	Desktop:           CategoryConsumer,
	IndustrialMachine: CategoryIndustrial,
	Motor:             CategoryIndustrial,
	Pump:              CategoryIndustrial,
	Compressor:        CategoryIndustrial,
	HVAC:              CategoryIndustrial,
}

// CategoryOf returns the category for t, or CategoryUnknown for types
// outside the supported set.
func CategoryOf(t Type) Category {
	return categories[t]
}

// Known reports whether t is one of the supported equipment types.
func Known(t Type) bool {
	_, ok := categories[t]
	return ok
}

// AllTypes returns the supported types in a stable order.
func AllTypes() []Type {
	return []Type{
		Laptop, Phone, Tablet, Desktop,
		IndustrialMachine, Motor, Pump, Compressor, HVAC,
	}
}
