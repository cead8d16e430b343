package mongostore

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"todo-api/internal/model"
)

// todoDocument is the stored shape of a Todo.
type todoDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toDocument(t model.Todo) todoDocument {
	return todoDocument{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

// setFields is the $set stage of an update. Values are wrapped in $literal
// so a title such as "$x" is not read as a field path. updated_at never
// drops below the stored created_at.
func setFields(fields model.Fields, updatedAt time.Time) bson.M {
	return bson.M{
		"title":       bson.M{"$literal": fields.Title},
		"description": bson.M{"$literal": fields.Description},
		"completed":   bson.M{"$literal": fields.Completed},
		"updated_at":  bson.M{"$max": bson.A{"$created_at", updatedAt.UTC()}},
	}
}

func updatePipeline(fields model.Fields, updatedAt time.Time) bson.A {
	return bson.A{bson.M{"$set": setFields(fields, updatedAt)}}
}

// idFilter matches both stored id forms that decodeTodo accepts.
func idFilter(id uuid.UUID) bson.M {
	return bson.M{"_id": bson.M{"$in": bson.A{
		id.String(),
		primitive.Binary{Subtype: bsontype.BinaryUUID, Data: id[:]},
	}}}
}

// decodeTodo maps a stored document back to a Todo. Ids may be stored as
// strings or as subtype 4 binary UUIDs; timestamps as BSON datetimes or RFC 3339
// strings. Any other shape is a *model.DecodeError.
func decodeTodo(raw bson.Raw) (model.Todo, error) {
	var t model.Todo
	var idText string

	fail := func(err error) (model.Todo, error) {
		return model.Todo{}, &model.DecodeError{ID: idText, Err: err}
	}

	idVal, err := raw.LookupErr("_id")
	if err != nil {
		return fail(errors.New("_id: missing"))
	}
	switch idVal.Type {
	case bsontype.String:
		idText = idVal.StringValue()
		if t.ID, err = uuid.Parse(idText); err != nil {
			return fail(errors.Wrap(err, "_id"))
		}
	case bsontype.Binary:
		subtype, data := idVal.Binary()
		if subtype != bsontype.BinaryUUID {
			return fail(errors.Errorf("_id: unexpected binary subtype %#x", subtype))
		}
		if t.ID, err = uuid.FromBytes(data); err != nil {
			return fail(errors.Wrap(err, "_id"))
		}
		idText = t.ID.String()
	default:
		idText = idVal.String()
		return fail(errors.Errorf("_id: unexpected type %s", idVal.Type))
	}

	if t.Title, err = lookupString(raw, "title"); err != nil {
		return fail(err)
	}
	if t.Description, err = lookupString(raw, "description"); err != nil {
		return fail(err)
	}
	if t.Completed, err = lookupBool(raw, "completed"); err != nil {
		return fail(err)
	}
	if t.CreatedAt, err = lookupTime(raw, "created_at"); err != nil {
		return fail(err)
	}
	if t.UpdatedAt, err = lookupTime(raw, "updated_at"); err != nil {
		return fail(err)
	}
	return t, nil
}

func lookupString(raw bson.Raw, key string) (string, error) {
	v, err := raw.LookupErr(key)
	if err != nil {
		return "", errors.Errorf("%s: missing", key)
	}
	s, ok := v.StringValueOK()
	if !ok {
		return "", errors.Errorf("%s: unexpected type %s", key, v.Type)
	}
	return s, nil
}

func lookupBool(raw bson.Raw, key string) (bool, error) {
	v, err := raw.LookupErr(key)
	if err != nil {
		return false, errors.Errorf("%s: missing", key)
	}
	b, ok := v.BooleanOK()
	if !ok {
		return false, errors.Errorf("%s: unexpected type %s", key, v.Type)
	}
	return b, nil
}

func lookupTime(raw bson.Raw, key string) (time.Time, error) {
	v, err := raw.LookupErr(key)
	if err != nil {
		return time.Time{}, errors.Errorf("%s: missing", key)
	}
	switch v.Type {
	case bsontype.DateTime:
		return time.UnixMilli(v.DateTime()).UTC(), nil
	case bsontype.String:
		ts, err := time.Parse(time.RFC3339Nano, v.StringValue())
		if err != nil {
			return time.Time{}, errors.Wrap(err, key)
		}
		return ts.UTC(), nil
	default:
		return time.Time{}, errors.Errorf("%s: unexpected type %s", key, v.Type)
	}
}
