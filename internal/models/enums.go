package models

import (
	"database/sql/driver"
	"fmt"
)

// Enumerations bind to the database as their lowercase snake_case label.
// scanEnum accepts both []byte and string since lib/pq returns either
// depending on the column type.
func scanEnum(dst *string, src interface{}) error {
	switch v := src.(type) {
	case string:
		*dst = v
	case []byte:
		*dst = string(v)
	case nil:
		*dst = ""
	default:
		return fmt.Errorf("cannot scan %T into enum", src)
	}
	return nil
}

// ContactType categorises a contact row's value field.
type ContactType string

const (
	ContactPhone     ContactType = "phone"
	ContactEmail     ContactType = "email"
	ContactFacebook  ContactType = "facebook"
	ContactLine      ContactType = "line"
	ContactInstagram ContactType = "instagram"
	ContactWebsite   ContactType = "website"
	ContactDiscord   ContactType = "discord"
	ContactOther     ContactType = "other"
)

func (t ContactType) Value() (driver.Value, error) { return string(t), nil }

func (t *ContactType) Scan(src interface{}) error {
	var s string
	if err := scanEnum(&s, src); err != nil {
		return err
	}
	*t = ContactType(s)
	return nil
}

// ShirtSize is the uniform size recorded on a person row.
type ShirtSize string

const (
	ShirtXS  ShirtSize = "xs"
	ShirtS   ShirtSize = "s"
	ShirtM   ShirtSize = "m"
	ShirtL   ShirtSize = "l"
	ShirtXL  ShirtSize = "xl"
	Shirt2XL ShirtSize = "2xl"
	Shirt3XL ShirtSize = "3xl"
)

func (s ShirtSize) Value() (driver.Value, error) { return string(s), nil }

func (s *ShirtSize) Scan(src interface{}) error {
	var v string
	if err := scanEnum(&v, src); err != nil {
		return err
	}
	*s = ShirtSize(v)
	return nil
}

// BloodGroup is exposed only at the Detailed fetch level.
type BloodGroup string

const (
	BloodAPos  BloodGroup = "a+"
	BloodANeg  BloodGroup = "a-"
	BloodBPos  BloodGroup = "b+"
	BloodBNeg  BloodGroup = "b-"
	BloodOPos  BloodGroup = "o+"
	BloodONeg  BloodGroup = "o-"
	BloodABPos BloodGroup = "ab+"
	BloodABNeg BloodGroup = "ab-"
)

func (b BloodGroup) Value() (driver.Value, error) { return string(b), nil }

func (b *BloodGroup) Scan(src interface{}) error {
	var v string
	if err := scanEnum(&v, src); err != nil {
		return err
	}
	*b = BloodGroup(v)
	return nil
}

// AbsenceType classifies a non-present attendance record.
type AbsenceType string

const (
	AbsenceSick     AbsenceType = "sick"
	AbsenceBusiness AbsenceType = "business"
	AbsenceActivity AbsenceType = "activity"
	AbsenceLate     AbsenceType = "late"
	AbsenceOther    AbsenceType = "other"
)

func (a AbsenceType) Value() (driver.Value, error) { return string(a), nil }

func (a *AbsenceType) Scan(src interface{}) error {
	var v string
	if err := scanEnum(&v, src); err != nil {
		return err
	}
	*a = AbsenceType(v)
	return nil
}

// CertificateType names the award category on a certificate.
type CertificateType string

const (
	CertificateAcademic CertificateType = "academic"
	CertificateMorale   CertificateType = "morale"
	CertificateSports   CertificateType = "sports"
	CertificateActivity CertificateType = "activity"
	CertificateOther    CertificateType = "other"
)

func (c CertificateType) Value() (driver.Value, error) { return string(c), nil }

func (c *CertificateType) Scan(src interface{}) error {
	var v string
	if err := scanEnum(&v, src); err != nil {
		return err
	}
	*c = CertificateType(v)
	return nil
}

// SubmissionStatus tracks membership and request workflows such as club
// join requests.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionDeclined SubmissionStatus = "declined"
)

func (s SubmissionStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *SubmissionStatus) Scan(src interface{}) error {
	var v string
	if err := scanEnum(&v, src); err != nil {
		return err
	}
	*s = SubmissionStatus(v)
	return nil
}
