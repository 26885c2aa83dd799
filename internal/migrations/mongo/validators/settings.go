package validators

import "go.mongodb.org/mongo-driver/bson"

var SettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"agent_id",
			"booking_type",
			"bookings_per_slot",
			"meeting_duration_min",
			"buffer_min",
			"timezone",
			"weekly_rules",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"agent_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"booking_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"individual",
					"team",
				},
			},

			"bookings_per_slot": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"meeting_duration_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  480,
			},

			"buffer_min": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  120,
			},

			"lunch_start": bson.M{
				"bsonType": "string",
			},

			"lunch_end": bson.M{
				"bsonType": "string",
			},

			"timezone": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"locations": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"in_person",
						"phone",
						"video",
					},
				},
			},

			"weekly_rules": bson.M{
				"bsonType": "array",
				"minItems": 7,
				"maxItems": 7,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"day", "available"},
					"properties": bson.M{
						"day": bson.M{
							"bsonType": "string",
							"enum": []string{
								"Sunday",
								"Monday",
								"Tuesday",
								"Wednesday",
								"Thursday",
								"Friday",
								"Saturday",
							},
						},
						"available": bson.M{
							"bsonType": "bool",
						},
						"start_time": bson.M{
							"bsonType": "string",
						},
						"end_time": bson.M{
							"bsonType": "string",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
