// Copyright (c) 2025 Berik Ashimov

package ipmath

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	v, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (s Subnet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Subnet) UnmarshalText(text []byte) error {
	v, err := ParseSubnet(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
