package extract

import "encoding/json"

// Version is bumped whenever the instruction prompt or the schema changes, so
// stored records can be told apart by the extraction contract that produced
// them.
const Version = 1

const schemaName = "free_text_to_structure"

// SystemMessage instructs the model to map a free-text report of illegal
// fishing onto the fixed attribute set below.
const SystemMessage = `Cada mensaje de usuario es un informe sobre prácticas de pesca ilegal. Su tarea es identificar sus atributos principales y presentarlos como un objeto JSON:

* Hora de observación: Si se dispone de la información, incluya la hora del día en que tuvo lugar la actividad ilegal.
* Tipo Vehiculo: En caso de que se proporcione la información, ¿qué tipo de buque pesquero estaba involucrado en actividades ilegales?
* Nombre de vechiculo: En caso de que se proporcionara, ¿cuál era el número del buque pesquero?
* matricula: En caso de haberla proporcionado, ¿cuál era la matrícula del buque pesquero?
* Actividad Observada: ¿Qué actividad se observó?
* Arte De Pesca: En caso de que se haya producido, ¿qué tipo de arte de pesca ilegal se estaba llevando a cabo?
* Certeza: ¿Qué tan seguro estás de tu interpretación del texto del informe (BAJO, MEDIO, ALTO)?
* Lugar de referencia: En caso de que se haya producido, ¿dónde tuvo lugar la actividad? ¿Qué lugares de referencia había en la zona?
* Acción recomendada: ¿Qué medidas se deberían recomendar?
* palabras clave: Proporcione una lista de palabras clave que caractericen la actividad descrita en este informe.

Si no se pudo determinar un atributo a partir del texto del informe, no lo incluya en el resultado.`

// schemaJSON is the bare schema object handed to the model as the mandatory
// response shape.
var schemaJSON = json.RawMessage(`{
  "type": "object",
  "properties": {
    "Hora de observación": {"type": "string"},
    "Tipo Vehiculo": {
      "type": "string",
      "enum": ["SIN_DATO", "BARCO", "BARCO_ATUNERO", "PANGA"]
    },
    "Nombre de vechiculo": {"type": "string"},
    "matricula": {"type": "string"},
    "Actividad Observada": {
      "type": "string",
      "enum": ["SIN_DATO", "PESCA_ZONAS_NO_PERMITIDAS", "ARTES_PESCA_NO_PERMITIDAS"]
    },
    "Arte De Pesca": {
      "type": "string",
      "enum": ["SIN_DATO", "RED", "BUCEO", "PISTOLA"]
    },
    "Certeza": {
      "type": "string",
      "enum": ["BAJO", "MEDIO", "ALTO"]
    },
    "Lugar de referencia": {"type": "string"},
    "Acción recomendada": {
      "type": "string",
      "enum": ["Nivel de urgencia: BAJO", "Nivel de urgencia: MEDIO", "Nivel de urgencia: ALTO"]
    },
    "palabras clave": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": [],
  "additionalProperties": false
}`)

// fullSchemaJSON is the named wrapper persisted alongside every extraction
// result so each record carries the exact contract it was produced under.
var fullSchemaJSON = json.RawMessage(`{"name": "` + schemaName + `", "schema": ` + string(schemaJSON) + `}`)
