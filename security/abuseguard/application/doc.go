// Package application implementa os casos de uso da camada de segurança
// (cooldown de comando, varredura de ameaças, aquisição de vaga no
// console), sem conhecer filesystem, redis nem o protocolo do console.
package application
