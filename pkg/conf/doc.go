/*
Package conf extends the builtin 'flag' package to provide:
- environment parsing with a predefined prefix (TENSIO_),
- config dump generation for reproducing runs,
- ability to extract current values of registered flags (defined with wrappers),
- new types of flags e.g. SliceFlag and FloatListFlag,
- predefined flags for logging (logrus integration),
*/
package conf
